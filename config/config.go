package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"weathr/providers"
)

// ErrInvalidConfig is returned when a setting is missing or out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	APIKey       string        `validate:"required"`
	BaseURL      string        `validate:"required,url"`
	Units        string        `validate:"oneof=imperial metric standard"`
	ExcludeHours string        // comma separated UTC hours, checked by forecast.ParseExclusion
	HTTPTimeout  time.Duration `validate:"gt=0"`
	MaxRetries   int           `validate:"min=0,max=10"`
	RateLimit    float64       `validate:"gt=0"` // outbound requests per second
	LogLevel     string        `validate:"oneof=debug info warn error"`
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if there is one. The API key is not
// checked here, see Validate.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	timeout, err := getEnvAsDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	rateLimit, err := getEnvAsFloat("HTTP_RATE_LIMIT", 1)
	if err != nil {
		return nil, err
	}

	config := &Config{
		APIKey:       getEnv("WEATHER_API_KEY", ""),
		BaseURL:      getEnv("WEATHER_BASE_URL", providers.DefaultBaseURL),
		Units:        getEnv("WEATHER_UNITS", "imperial"),
		ExcludeHours: getEnvOrEmpty("WEATHER_EXCLUDE_HOURS", "0,3"),
		HTTPTimeout:  timeout,
		MaxRetries:   getEnvAsInt("HTTP_MAX_RETRIES", 3),
		RateLimit:    rateLimit,
		LogLevel:     getEnv("LOG_LEVEL", "warn"),
	}

	return config, nil
}

var validate = validator.New()

// Validate checks every setting, including the API key.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)", ErrInvalidConfig, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrEmpty is like getEnv but keeps an explicitly empty value.
func getEnvOrEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return f, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return d, nil
}
