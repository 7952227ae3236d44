// api/config/config.go
package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Store         StoreConfiguration
	Neo4j         DatabaseConfiguration
	Redis         RedisConfiguration
	Lock          LockConfiguration
	Audit         AuditConfiguration
	Elasticsearch ElasticsearchConfiguration
	Postgres      PostgresConfiguration
	Auth          AuthConfiguration
	Log           LogConfiguration
	Seed          SeedConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port      string
	RateLimit RateLimitConfiguration
}

type RateLimitConfiguration struct {
	Requests int
	Window   time.Duration
}

// StoreConfiguration selects where roles, users and teams live: "neo4j" or "memory"
type StoreConfiguration struct {
	Backend string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI      string
	Username string
	Password string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr            string
	Password        string
	DB              int
	DefaultCacheTTL time.Duration
}

// LockConfiguration selects the per-entity locker: "redis" or "local"
type LockConfiguration struct {
	Backend string
	TTL     time.Duration
	Wait    time.Duration
}

// AuditConfiguration selects the audit sink: "elasticsearch", "postgres" or "memory"
type AuditConfiguration struct {
	Backend string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL   string
	Index string
}

type PostgresConfiguration struct {
	DSN string
}

type AuthConfiguration struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

type LogConfiguration struct {
	Level string
	File  string
}

type SeedConfiguration struct {
	File string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	setDefaults()

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.rateLimit.requests", 100)
	viper.SetDefault("server.rateLimit.window", "1m")
	viper.SetDefault("store.backend", "neo4j")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("neo4j.username", "neo4j")
	viper.SetDefault("neo4j.password", "")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.defaultCacheTTL", "10m")
	viper.SetDefault("lock.backend", "redis")
	viper.SetDefault("lock.ttl", "10s")
	viper.SetDefault("lock.wait", "5s")
	viper.SetDefault("audit.backend", "elasticsearch")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("elasticsearch.index", "audit-logs")
	viper.SetDefault("postgres.dsn", "")
	viper.SetDefault("auth.jwtSecret", "")
	viper.SetDefault("auth.tokenTTL", "12h")
	viper.SetDefault("auth.issuer", "teamaccess")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "logging/api.log")
	viper.SetDefault("seed.file", "")
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
