package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestDBCredentialDsn(t *testing.T) {
	cred := DBCredential{
		Address:  "127.0.0.1",
		Port:     "5432",
		User:     "questline",
		Password: "secret",
		Database: "questline",
	}
	assert.Equal(t, "host=127.0.0.1 port=5432 user=questline password=secret dbname=questline", cred.Dsn())
}

func TestClaimPollInterval(t *testing.T) {
	assert.Equal(t, 5*time.Second, Claim{}.PollInterval())
	assert.Equal(t, 5*time.Second, Claim{PollIntervalSec: -1}.PollInterval())
	assert.Equal(t, 10*time.Second, Claim{PollIntervalSec: 10}.PollInterval())
}

func TestConfigurationUnmarshal(t *testing.T) {
	raw := `
log_level: 2
http:
  listen_addr: ":9090"
  public_base_url: "https://event.example.com"
  session_cookie: "user_token"
  rate_limit_per_minute: 60
claim:
  poll_interval_sec: 3
`
	var conf Configuration
	require.NoError(t, yaml.Unmarshal([]byte(raw), &conf))
	assert.Equal(t, 2, conf.LogLevel)
	assert.Equal(t, ":9090", conf.HTTP.ListenAddr)
	assert.Equal(t, "https://event.example.com", conf.HTTP.PublicBaseURL)
	assert.Equal(t, 60, conf.HTTP.RateLimitPerMinute)
	assert.Equal(t, 3*time.Second, conf.Claim.PollInterval())
}
