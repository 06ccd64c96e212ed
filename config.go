package nezamcrawler

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// configService wraps viper for .env and environment lookups.
type configService struct {
	v *viper.Viper // Viper instance for configuration management
}

// newConfig creates a new instance of configService.
func newConfig() *configService {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Printf("Error reading Config file: %v\n", err)
		}
	}

	return &configService{v: v}
}

// Env retrieves a configuration value from environment variables.
func (c *configService) Env(envName string, defaultValue ...interface{}) interface{} {
	value := c.v.Get(envName)
	if value != nil {
		return value
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return nil
}

func (c *configService) EnvString(envName string, defaultValue ...string) string {
	value := c.v.Get(envName)
	if value != nil && fmt.Sprint(value) != "" {
		return fmt.Sprint(value)
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return ""
}

// Add sets a configuration value, overriding .env and the environment.
func (c *configService) Add(name string, configuration interface{}) {
	c.v.Set(name, configuration)
}

func (c *configService) IsSet(path string) bool {
	return c.v.IsSet(path) && c.v.GetString(path) != ""
}

func (c *configService) GetString(path string) string {
	return c.v.GetString(path)
}

func (c *configService) GetInt(path string) int {
	return c.v.GetInt(path)
}

func (c *configService) GetBool(path string) bool {
	return c.v.GetBool(path)
}

// GetDuration accepts Go duration strings ("15s") as well as bare seconds.
func (c *configService) GetDuration(path string) time.Duration {
	raw := c.v.GetString(path)
	if raw == "" {
		return 0
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return time.Duration(c.v.GetInt(path)) * time.Second
}
