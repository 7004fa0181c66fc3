package lvldb

import (
	"encoding/json"
	"fmt"

	"github.com/sprintertech/sprinter-bridge/transfer"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const transferPrefix = "transfer:"

// LvlStore persists transfer records as JSON values in a LevelDB instance
type LvlStore struct {
	db *leveldb.DB
}

// NewLvlStore opens (or creates) a LevelDB instance at the given path
func NewLvlStore(path string) (*LvlStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed opening leveldb at %s: %w", path, err)
	}
	return NewLvlStoreFromDB(db), nil
}

func NewLvlStoreFromDB(db *leveldb.DB) *LvlStore {
	return &LvlStore{
		db: db,
	}
}

func (s *LvlStore) Close() error {
	return s.db.Close()
}

func (s *LvlStore) SaveTransfer(t *transfer.Transfer) error {
	value, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.db.Put(transferKey(t.ID), value, nil)
}

// Transfers returns all persisted records
func (s *LvlStore) Transfers() ([]*transfer.Transfer, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(transferPrefix)), nil)
	defer iter.Release()

	transfers := make([]*transfer.Transfer, 0)
	for iter.Next() {
		t := new(transfer.Transfer)
		if err := json.Unmarshal(iter.Value(), t); err != nil {
			return nil, fmt.Errorf("corrupted record %s: %w", iter.Key(), err)
		}
		transfers = append(transfers, t)
	}
	return transfers, iter.Error()
}

func transferKey(id string) []byte {
	return []byte(transferPrefix + id)
}
