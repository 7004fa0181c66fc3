package handlers_test

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sprintertech/sprinter-bridge/api/handlers"
	mock_handlers "github.com/sprintertech/sprinter-bridge/api/handlers/mock"
	"github.com/sprintertech/sprinter-bridge/ledger"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type StateHandlerTestSuite struct {
	suite.Suite

	mockBridge *mock_handlers.MockBridge
	handler    *handlers.StateHandler
}

func TestRunStateHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(StateHandlerTestSuite))
}

func (s *StateHandlerTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockBridge = mock_handlers.NewMockBridge(ctrl)
	s.handler = handlers.NewStateHandler(s.mockBridge)
}

func (s *StateHandlerTestSuite) Test_HandleRequest_ReturnsState() {
	s.mockBridge.EXPECT().GetState().Return(ledger.State{
		Total:     3,
		Active:    1,
		Completed: 1,
		Failed:    1,
		Volume:    big.NewInt(500),
		Chains: map[string]ledger.ChainStats{
			"ethereum": {
				Transfers:   3,
				Completed:   1,
				Failed:      1,
				Volume:      big.NewInt(500),
				SuccessRate: 0.5,
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	recorder := httptest.NewRecorder()

	s.handler.HandleRequest(recorder, req)

	s.Equal(http.StatusOK, recorder.Code)
	resp := handlers.StateResponse{}
	err := json.Unmarshal(recorder.Body.Bytes(), &resp)
	s.Nil(err)
	s.Equal(uint64(3), resp.Total)
	s.Equal("500", resp.Volume)
	s.Equal(0.5, resp.ChainStats["ethereum"].SuccessRate)
	s.Equal("500", resp.ChainStats["ethereum"].Volume)
}

func (s *StateHandlerTestSuite) Test_HandleRequest_EmptyState() {
	s.mockBridge.EXPECT().GetState().Return(ledger.State{})

	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	recorder := httptest.NewRecorder()

	s.handler.HandleRequest(recorder, req)

	s.Equal(http.StatusOK, recorder.Code)
	resp := handlers.StateResponse{}
	err := json.Unmarshal(recorder.Body.Bytes(), &resp)
	s.Nil(err)
	s.Equal("0", resp.Volume)
}
