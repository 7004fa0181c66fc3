package check

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/sprintertech/sprinter-bridge/config"
	"github.com/stretchr/testify/suite"
)

const testConfig = `{
	"bridge": {
		"id": "bridge-1",
		"validators": ["v1", "v2", "v3"],
		"relayers": ["r1"],
		"threshold": 2,
		"fee": {"base": "1000", "bps": 10, "min": "500", "max": "5000"}
	},
	"chains": [
		{"name": "ethereum", "gasCeiling": 300000},
		{"name": "polygon", "gasCeiling": 500000}
	]
}`

type CheckTestSuite struct {
	suite.Suite
}

func TestRunCheckTestSuite(t *testing.T) {
	suite.Run(t, new(CheckTestSuite))
}

func (s *CheckTestSuite) TearDownTest() {
	viper.Set(config.ConfigFlagName, "")
}

func (s *CheckTestSuite) Test_CheckConfig_InvalidPath() {
	viper.Set(config.ConfigFlagName, filepath.Join(s.T().TempDir(), "missing.json"))

	err := checkConfig(CheckCLI, []string{})

	s.NotNil(err)
}

func (s *CheckTestSuite) Test_CheckConfig_ValidConfig() {
	path := filepath.Join(s.T().TempDir(), "config.json")
	err := os.WriteFile(path, []byte(testConfig), 0600)
	s.Nil(err)
	viper.Set(config.ConfigFlagName, path)

	out := &bytes.Buffer{}
	CheckCLI.SetOut(out)
	err = checkConfig(CheckCLI, []string{})

	s.Nil(err)
	s.Contains(out.String(), "Quorum: 2 of 3 validators")
	s.Contains(out.String(), "Chain ethereum: gas ceiling 300000, confirmation delay 1m0s")
	s.Contains(out.String(), "Fee: base 1000, 10 bps, min 500, max 5000")
}
