package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from config.yml
func LoadAppConfig() error {
	return LoadAppConfigFrom("config.yml", "./deploy/config.yml")
}

// LoadAppConfigFrom tries each path in order and loads the first that
// can be read.
func LoadAppConfigFrom(paths ...string) error {
	// .env is optional; a missing file is fine.
	_ = godotenv.Load()

	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	cfg.applyDefaults()

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}

	cfg.API.SubscriptionKey = os.Getenv("STOPREPORTS_API_KEY")
	Config = cfg
	return nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8162
	}
	if c.API.TimeoutMS == 0 {
		c.API.TimeoutMS = 30000
	}
	if c.API.ChunkHours == 0 {
		c.API.ChunkHours = 24
	}
	if c.Detection.LoopMileage == 0 {
		c.Detection.LoopMileage = 4.3
	}
	if c.Detection.Direction == "" {
		c.Detection.Direction = "L"
	}
	if len(c.RouteMapping) == 0 {
		c.RouteMapping = map[string]string{"BL": "55", "WL": "57"}
	}
}
