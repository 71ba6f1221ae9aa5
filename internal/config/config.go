package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Admin      AdminConfig      `yaml:"admin"`
	Session    SessionConfig    `yaml:"session"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Storage    StorageConfig    `yaml:"storage"`
	AttemptLog AttemptLogConfig `yaml:"attempt_log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Workers    WorkersConfig    `yaml:"workers"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AdminConfig holds the instructor panel shared secret. This is a
// classroom convenience, not an authentication scheme.
type AdminConfig struct {
	Password string `yaml:"password"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type DatasetConfig struct {
	// LiveKey is the storage key of the published assignment workbook
	// the portal reads at every login.
	LiveKey string `yaml:"live_key"`
	// StagingKey is where the hoca panel uploads a shuffled workbook
	// before it is validated and promoted by the publish worker.
	StagingKey string `yaml:"staging_key"`
}

type StorageConfig struct {
	// Type selects the backend: "s3" or "local".
	Type  string      `yaml:"type"`
	Local LocalConfig `yaml:"local"`
	S3    S3Config    `yaml:"s3"`
}

type LocalConfig struct {
	Dir string `yaml:"dir"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type AttemptLogConfig struct {
	// Store selects the backend: "file" (default) or "mysql".
	Store string `yaml:"store"`
	Path  string `yaml:"path"`
}

type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type RedisConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool_size"`
	PublishQueue string `yaml:"publish_queue"`
	DLQSuffix    string `yaml:"dlq_suffix"`
}

type WorkersConfig struct {
	Publish PublishWorkerConfig `yaml:"publish"`
}

type PublishWorkerConfig struct {
	Count         int           `yaml:"count"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Session.TTL == 0 {
		c.Session.TTL = 4 * time.Hour
	}
	if c.AttemptLog.Store == "" {
		c.AttemptLog.Store = "file"
	}
	if c.AttemptLog.Path == "" {
		c.AttemptLog.Path = "student_logs.json"
	}
	if c.Workers.Publish.Count == 0 {
		c.Workers.Publish.Count = 1
	}
	if c.Workers.Publish.RetryAttempts == 0 {
		c.Workers.Publish.RetryAttempts = 3
	}
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.Charset, c.Database.ParseTime, c.Database.Loc)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
