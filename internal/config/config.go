package config

import (
	"fmt"
	"os"
	"reflect"
	"sync"
)

var cfg *Config
var once sync.Once

// Config is the configuration for the application
type Config struct {
	Server
	PostgreSQL
	Auth
	Rates
	Generator
	Aggregation
}

// Server is the configuration for the server
type Server struct {
	Port string `env:"PORT" envDefault:"8080"`
}

// Addr returns the address for the server
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%s", "0.0.0.0", s.Port)
}

// PostgreSQL is the configuration for the database
type PostgreSQL struct {
	Driver          string `env:"DB_DRIVER" envDefault:"postgres"`
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            string `env:"DB_PORT" envDefault:"5432"`
	Database        string `env:"DB_DATABASE" envDefault:"txmon"`
	Username        string `env:"DB_USERNAME" envDefault:"txmon"`
	Password        string `env:"DB_PASSWORD" envDefault:"txmon"`
	SSLMode         string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConnAttempts string `env:"DB_MAX_CONN_ATTEMPTS" envDefault:"5"`
}

// DSN returns the DSN for the database
func (c PostgreSQL) DSN() string {
	return fmt.Sprintf("%s://%s:%s@%s:%s/%s?sslmode=%s",
		c.Driver,
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// Auth is the configuration for token verification. Token issuance is
// external; this service only validates.
type Auth struct {
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret"`
}

// Rates is the configuration for the exchange rate source
type Rates struct {
	BaseURL        string `env:"RATES_BASE_URL" envDefault:"https://api.exchangerate-api.com/v4/latest"`
	TimeoutSeconds string `env:"RATES_TIMEOUT_SECONDS" envDefault:"5"`
}

// Generator is the configuration for the synthetic transaction generator
type Generator struct {
	IntervalSeconds string `env:"GENERATOR_INTERVAL_SECONDS" envDefault:"5"`
}

// Aggregation is the configuration for the graph/aggregate default window
type Aggregation struct {
	WindowHours   string `env:"AGGREGATION_WINDOW_HOURS" envDefault:"24"`
	BucketMinutes string `env:"AGGREGATION_BUCKET_MINUTES" envDefault:"15"`
}

// Load loads the configuration from environment variables
func Load() *Config {
	once.Do(func() {
		cfg = &Config{}
		cfgType := reflect.TypeOf(*cfg)
		cfgValue := reflect.ValueOf(cfg).Elem()

		for i := 0; i < cfgType.NumField(); i++ {
			field := cfgType.Field(i)
			fieldValue := cfgValue.Field(i)
			for j := 0; j < field.Type.NumField(); j++ {
				subField := field.Type.Field(j)
				envVar := subField.Tag.Get("env")
				envDefault := subField.Tag.Get("envDefault")
				value := getEnv(envVar, envDefault)

				fieldValue.Field(j).SetString(value)
			}
		}
	})

	return cfg
}

// getEnv retrieves the value of the environment variable named by the key or returns the defaultValue if not set
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = defaultValue
	}
	return value
}
