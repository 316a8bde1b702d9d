package cli

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config holds the CLI's session settings. Values come from an
// optional YAML file, overridden by environment variables (which a
// .env file may populate).
type Config struct {
	APIKey    string `yaml:"api_key"`
	AccessKey string `yaml:"access_key"`
	UserEmail string `yaml:"user_email"`
	BaseURL   string `yaml:"base_url"`
	CachePath string `yaml:"cache_path"`
}

// Validate checks that the credentials required for API commands are
// present.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.AccessKey, validation.Required),
	)
}

// Environment variable names overriding file values.
const (
	envAPIKey    = "APPTIVO_API_KEY"
	envAccessKey = "APPTIVO_ACCESS_KEY"
	envUserEmail = "APPTIVO_USER_EMAIL"
	envBaseURL   = "APPTIVO_BASE_URL"
	envCachePath = "APPTIVO_CACHE_PATH"
)

// LoadConfig reads the config file when path is non-empty, then
// applies environment overrides. A missing default file is not an
// error; credentials are validated by the commands that need them.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg.APIKey, envAPIKey)
	applyEnv(&cfg.AccessKey, envAccessKey)
	applyEnv(&cfg.UserEmail, envUserEmail)
	applyEnv(&cfg.BaseURL, envBaseURL)
	applyEnv(&cfg.CachePath, envCachePath)
	return cfg, nil
}

func applyEnv(target *string, name string) {
	if v := os.Getenv(name); v != "" {
		*target = v
	}
}
