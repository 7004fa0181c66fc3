package redis_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redigo "github.com/gomodule/redigo/redis"
	"github.com/sprintertech/sprinter-bridge/store/redis"
	"github.com/sprintertech/sprinter-bridge/transfer"
	"github.com/stretchr/testify/suite"
)

type RedisStoreTestSuite struct {
	suite.Suite

	server *miniredis.Miniredis
	store  *redis.RedisStore
}

func TestRunRedisStoreTestSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (s *RedisStoreTestSuite) SetupTest() {
	s.server = miniredis.RunT(s.T())
	s.store = redis.NewRedisStore(s.server.Addr())
}

func (s *RedisStoreTestSuite) TearDownTest() {
	s.store.Close()
}

func (s *RedisStoreTestSuite) Test_SaveTransfer_InvalidStatus() {
	err := s.store.SaveTransfer(&transfer.Transfer{ID: "1", Status: "unknown"})

	s.NotNil(err)
}

func (s *RedisStoreTestSuite) Test_SaveTransfer_EmptyID() {
	err := s.store.SaveTransfer(&transfer.Transfer{Status: transfer.StatusPending})

	s.NotNil(err)
}

func (s *RedisStoreTestSuite) Test_SaveTransfer_MovesBetweenStatusSets() {
	t := &transfer.Transfer{
		ID:     "1",
		Amount: big.NewInt(100),
		Status: transfer.StatusPending,
	}
	s.Nil(s.store.SaveTransfer(t))

	t.Status = transfer.StatusConfirmed
	s.Nil(s.store.SaveTransfer(t))

	all, err := s.store.Transfers()
	s.Nil(err)
	s.Len(all, 1)
	s.Equal(transfer.StatusConfirmed, all[0].Status)
	s.Equal(0, all[0].Amount.Cmp(big.NewInt(100)))

	members, err := s.server.SMembers("transfers:confirmed")
	s.Nil(err)
	s.Equal([]string{"1"}, members)
	s.False(s.server.Exists("transfers:pending"))
}

func (s *RedisStoreTestSuite) Test_Transfers_KeepsFailureDetails() {
	s.Nil(s.store.SaveTransfer(&transfer.Transfer{
		ID:      "1",
		Amount:  big.NewInt(7),
		Status:  transfer.StatusFailed,
		Error:   "execution reverted",
		Failure: transfer.FailureExecution,
	}))

	all, err := s.store.Transfers()

	s.Nil(err)
	s.Len(all, 1)
	s.Equal("execution reverted", all[0].Error)
	s.Equal(transfer.FailureExecution, all[0].Failure)
}

func (s *RedisStoreTestSuite) Test_Transfers_IndexedWithoutRecord() {
	_, err := s.server.SAdd("transfers:pending", "missing")
	s.Nil(err)

	_, err = s.store.Transfers()

	s.NotNil(err)
}

func (s *RedisStoreTestSuite) Test_Transfers_ReturnsAll() {
	for _, id := range []string{"a", "b"} {
		s.Nil(s.store.SaveTransfer(&transfer.Transfer{
			ID:     id,
			Amount: big.NewInt(1),
			Status: transfer.StatusPending,
		}))
	}

	all, err := s.store.Transfers()

	s.Nil(err)
	s.Len(all, 2)
}

func (s *RedisStoreTestSuite) Test_Transfers_ConnectionError() {
	store := redis.NewRedisStoreFromPool(&redigo.Pool{
		Dial: func() (redigo.Conn, error) {
			return nil, errors.New("connection refused")
		},
	})

	_, err := store.Transfers()

	s.NotNil(err)
}
