package config

import "time"

type Config struct {
	APIListen       string `yaml:"apiListen"`
	BearerToken     string `yaml:"bearerToken"`
	Debug           bool   `yaml:"debug"`
	StorePath       string `yaml:"storePath"`
	DefaultRowLimit int    `yaml:"defaultRowLimit"`
	QueryTimeoutSec int    `yaml:"queryTimeoutSec"`
}

func Default() Config {
	return Config{
		APIListen:       "127.0.0.1:8090",
		BearerToken:     "",
		Debug:           false,
		StorePath:       "",
		DefaultRowLimit: 100,
		QueryTimeoutSec: 60,
	}
}

// QueryTimeout is the per-request deadline the API layer applies around
// the full round trip. The adapter itself enforces none.
func (c Config) QueryTimeout() time.Duration {
	sec := c.QueryTimeoutSec
	if sec <= 0 {
		sec = 60
	}
	return time.Duration(sec) * time.Second
}

func (c Config) RowLimitOrDefault() int {
	if c.DefaultRowLimit > 0 {
		return c.DefaultRowLimit
	}
	return 100
}
