package config

import (
	"flag"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// DBCredential struct
type DBCredential struct {
	Address  string `yaml:"address"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

func (c *DBCredential) Dsn() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		c.Address, c.Port, c.User, c.Password, c.Database)
}

// HTTP holds the public-facing server settings.
type HTTP struct {
	ListenAddr string `yaml:"listen_addr"`
	// PublicBaseURL is the externally reachable origin embedded into
	// supervisor verification URLs.
	PublicBaseURL string `yaml:"public_base_url"`
	SessionCookie string `yaml:"session_cookie"`
	// RateLimitPerMinute caps requests per client IP on the public API.
	// Zero disables rate limiting (redis is then never touched).
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

// Claim holds the award claim protocol settings.
type Claim struct {
	PollIntervalSec int `yaml:"poll_interval_sec"`
}

func (c Claim) PollInterval() time.Duration {
	if c.PollIntervalSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.PollIntervalSec) * time.Second
}

// Configuration struct
type Configuration struct {
	LogLevel  int          `yaml:"log_level"`
	HTTP      HTTP         `yaml:"http"`
	Postgres  DBCredential `yaml:"postgres"`
	Redis     DBCredential `yaml:"redis"`
	SentryDSN string       `yaml:"sentry_dsn"`
	Claim     Claim        `yaml:"claim"`
}

var Global *Configuration

func readConfig(path string) (Configuration, error) {
	logrus.Info("Starting to load configuration file ...")
	dat, err := ioutil.ReadFile(path)
	if err != nil {
		logrus.Fatal(err)
	}
	t := Configuration{}
	if err := yaml.Unmarshal(dat, &t); err != nil {
		logrus.Fatalf("fail to decode config error: %v", err)
	}
	return t, nil
}

func Read() {
	configFilePath := flag.String("config-path", "internal/config/config.yml", "The path to the configuration file")
	flag.Parse()
	logrus.Infof("Loading configuration file from %s", *configFilePath)
	globalConfig, err := readConfig(*configFilePath)
	if err != nil {
		logrus.Fatal(err)
	}
	Global = &globalConfig
}
