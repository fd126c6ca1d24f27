package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	for _, key := range []string{"GEMINI_API_KEY", "GENAI_API_KEY", "PORT", "SERVER_PORT", "GEMINI_MODEL", "STORE_BACKEND", "EVENTS_BROKERS"} {
		suite.T().Setenv(key, "")
	}
}

func (suite *ConfigTestSuite) writeConfig(body string) string {
	path := filepath.Join(suite.dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(body), 0o644))
	return path
}

func (suite *ConfigTestSuite) TestDefaults() {
	cfg, err := Load("")
	suite.Require().NoError(err)

	suite.Equal(8080, cfg.Server.Port)
	suite.Equal(":8080", cfg.Server.Addr())
	suite.Equal("release", cfg.Server.Mode)
	suite.Equal("info", cfg.Log.Level)
	suite.Equal(BackendFile, cfg.Store.Backend)
	suite.Equal("crm.json", cfg.Store.Path)
	suite.Equal("crm:profiles", cfg.Store.RedisKey)
	suite.False(cfg.Store.RejectDuplicates)
	suite.Equal("gemini-2.5-flash-lite", cfg.Gemini.Model)
	suite.InDelta(0.7, cfg.Gemini.Temperature, 1e-6)
	suite.InDelta(0.95, cfg.Gemini.TopP, 1e-6)
	suite.Equal(int32(2048), cfg.Gemini.MaxOutputTokens)
	suite.Equal(30*time.Second, cfg.Gemini.Timeout)
	suite.Equal(uint64(1), cfg.Gemini.Retries)
	suite.False(cfg.Pipeline.RecordSuggestions)
	suite.Equal(500*time.Millisecond, cfg.Pipeline.PublishTimeout)
	suite.False(cfg.Events.Enabled)
	suite.Equal([]string{"localhost:9092"}, cfg.Events.Brokers)
	suite.Equal("sales-interactions", cfg.Events.Topic)
}

func (suite *ConfigTestSuite) TestConfigFile() {
	path := suite.writeConfig(`
store:
  backend: redis
  redis_addr: redis:6379
  reject_duplicates: true
gemini:
  timeout: 5s
  retries: 0
pipeline:
  record_suggestions: true
`)

	cfg, err := Load(path)
	suite.Require().NoError(err)

	suite.Equal(BackendRedis, cfg.Store.Backend)
	suite.Equal("redis:6379", cfg.Store.RedisAddr)
	suite.True(cfg.Store.RejectDuplicates)
	suite.Equal(5*time.Second, cfg.Gemini.Timeout)
	suite.Equal(uint64(0), cfg.Gemini.Retries)
	suite.True(cfg.Pipeline.RecordSuggestions)
}

func (suite *ConfigTestSuite) TestEnvironmentOverrides() {
	suite.T().Setenv("GEMINI_API_KEY", "secret")
	suite.T().Setenv("PORT", "9090")
	suite.T().Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg, err := Load("")
	suite.Require().NoError(err)

	suite.Equal("secret", cfg.Gemini.APIKey)
	suite.Equal(9090, cfg.Server.Port)
	suite.Equal("gemini-2.5-pro", cfg.Gemini.Model)
}

func (suite *ConfigTestSuite) TestGenaiKeyFallback() {
	suite.T().Setenv("GENAI_API_KEY", "fallback")

	cfg, err := Load("")
	suite.Require().NoError(err)
	suite.Equal("fallback", cfg.Gemini.APIKey)
}

func (suite *ConfigTestSuite) TestMissingExplicitFileIsError() {
	_, err := Load(filepath.Join(suite.dir, "missing.yaml"))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestUnknownBackendIsRejected() {
	path := suite.writeConfig("store:\n  backend: postgres\n")

	_, err := Load(path)
	suite.ErrorContains(err, "unknown store.backend")
}
