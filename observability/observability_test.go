package observability_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/observability"
	"github.com/stretchr/testify/suite"
)

type ObservabilityTestSuite struct {
	suite.Suite
}

func TestRunObservabilityTestSuite(t *testing.T) {
	suite.Run(t, new(ObservabilityTestSuite))
}

func (s *ObservabilityTestSuite) TearDownTest() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func (s *ObservabilityTestSuite) Test_ConfigureLogger_Level() {
	out := new(bytes.Buffer)
	observability.ConfigureLogger("warn", out)

	log.Info().Msg("hidden")
	log.Warn().Msg("visible")

	s.NotContains(out.String(), "hidden")
	s.Contains(out.String(), "visible")
}

func (s *ObservabilityTestSuite) Test_ConfigureLogger_UnknownLevel() {
	out := new(bytes.Buffer)
	observability.ConfigureLogger("loud", out)

	s.Equal(zerolog.InfoLevel, zerolog.GlobalLevel())
	s.Contains(out.String(), "Unknown log level")
}

func (s *ObservabilityTestSuite) Test_InitMetricProvider_WithoutCollector() {
	mp, err := observability.InitMetricProvider(context.Background(), "")

	s.Nil(err)
	s.Nil(mp.Shutdown(context.Background()))
}

func (s *ObservabilityTestSuite) Test_InitMetricProvider_InvalidURL() {
	_, err := observability.InitMetricProvider(context.Background(), "collector")

	s.NotNil(err)
}

func (s *ObservabilityTestSuite) Test_InitMetricProvider_Collector() {
	mp, err := observability.InitMetricProvider(context.Background(), "http://localhost:4318/v1/metrics")

	s.Nil(err)
	s.NotNil(mp)
}
