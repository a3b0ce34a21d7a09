package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config delegations (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Community CommunityConfig `yaml:"community"`
	SeedDemo  bool            `yaml:"seed_demo"`
	PageSize  int             `yaml:"page_size"`
}

// CommunityConfig bootstrap community created at startup so the service is
// usable without an admin call. The designated RN is the default
// signer-of-record for composed justifications.
type CommunityConfig struct {
	Name    string `yaml:"name"`
	RNName  string `yaml:"rn_name"`
	RNPhone string `yaml:"rn_phone"`
	RNEmail string `yaml:"rn_email"`
}

// Load reads configuration from the environment, then overlays an optional
// YAML file when CONFIG_FILE is set. Env values act as defaults; the file
// wins so deployments can pin settings.
func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Community.Name = getEnv("COMMUNITY_NAME", "")
	cfg.Community.RNName = getEnv("COMMUNITY_RN_NAME", "")
	cfg.Community.RNPhone = getEnv("COMMUNITY_RN_PHONE", "")
	cfg.Community.RNEmail = getEnv("COMMUNITY_RN_EMAIL", "")

	cfg.SeedDemo = getEnv("SEED_DEMO", "false") == "true"
	cfg.PageSize = parseInt(getEnv("PAGE_SIZE", "50"), 50)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
