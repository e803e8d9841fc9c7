package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type JsonUrl struct {
	*url.URL
}

func (j *JsonUrl) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return err
	}
	configUrl, err := url.Parse(s)
	j.URL = configUrl
	return err
}

func (j *JsonUrl) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.URL.String())
}

func (j *JsonUrl) UnmarshalYAML(value *yaml.Node) error {
	var s string
	err := value.Decode(&s)
	if err != nil {
		return err
	}
	configUrl, err := url.Parse(s)
	j.URL = configUrl
	return err
}

type JsonDuration struct {
	time.Duration
}

func (j *JsonDuration) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return err
	}
	var duration time.Duration
	duration, err = time.ParseDuration(s)
	if err != nil {
		return err
	}
	j.Duration = duration
	return err
}

func (j *JsonDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Duration.String())
}

func (j *JsonDuration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	err := value.Decode(&s)
	if err != nil {
		return err
	}
	duration, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	j.Duration = duration
	return nil
}

type Configuration struct {
	Logging struct {
		MaxSize         int           `yaml:"maxSize"`
		MaxBackups      int           `yaml:"maxBackups"`
		MaxAge          int           `yaml:"maxAge"`
		Level           zapcore.Level `yaml:"level"`
		ConsoleLogLevel zapcore.Level `yaml:"consoleLogLevel"`
		File            string        `yaml:"file"`
		DbLogFile       string        `yaml:"dbLogFile"`
	} `yaml:"logging"`
	Database struct {
		// Driver is either "postgres" (default) or "sqlite"
		Driver string `yaml:"driver"`
		// Url overrides Host, Port, Username, Password and DatabaseName if set
		Url             *JsonUrl      `yaml:"url"`
		Host            string        `yaml:"host"`
		Port            uint          `yaml:"port"`
		Username        string        `yaml:"username"`
		Password        string        `yaml:"password"`
		DatabaseName    string        `yaml:"databaseName"`
		SqlitePath      string        `yaml:"sqlitePath"`
		MaxIdleConns    int           `yaml:"maxIdleConns"`
		MaxOpenConns    int           `yaml:"maxOpenConns"`
		ConnMaxLifetime *JsonDuration `yaml:"connMaxLifetime"`
	} `yaml:"database"`
	Posts struct {
		// BoundedFieldPolicy is "reject" (default) or "truncate"
		BoundedFieldPolicy string `yaml:"boundedFieldPolicy"`
	} `yaml:"posts"`
}

var config *Configuration

// Environment variables overriding the configuration file. A .env file in the
// working directory is loaded into the environment first, if present.
const (
	EnvDatabaseDriver     = "POSTS_DB_DRIVER"
	EnvDatabaseUrl        = "POSTS_DB_URL"
	EnvDatabasePassword   = "POSTS_DB_PASSWORD"
	EnvSqlitePath         = "POSTS_SQLITE_PATH"
	EnvBoundedFieldPolicy = "POSTS_BOUNDED_FIELD_POLICY"
)

// LoadConfig reads the configuration at path, applies defaults and
// makes it available through Config. Files ending in .yaml or .yml are read as YAML, everything else as JSON.
func LoadConfig(path string) (*Configuration, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer file.Close()

	err = godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	decode := Decode
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = DecodeYaml
	}

	c, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	config = c
	return config, nil
}

// Decode decodes a configuration from JSON and applies defaults.
func Decode(r io.Reader) (*Configuration, error) {
	var c Configuration

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&c); err != nil {
		return nil, err
	}

	return finish(&c)
}

// DecodeYaml decodes a configuration from YAML and applies defaults.
// An empty document yields the defaults.
func DecodeYaml(r io.Reader) (*Configuration, error) {
	var c Configuration

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return nil, err
	}

	return finish(&c)
}

func finish(c *Configuration) (*Configuration, error) {
	err := applyEnvironment(c)
	if err != nil {
		return nil, err
	}

	applyDefaults(c)

	switch c.Database.Driver {
	case DriverPostgres, DriverSqlite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	return c, nil
}

func applyEnvironment(c *Configuration) error {
	if v, ok := os.LookupEnv(EnvDatabaseDriver); ok {
		c.Database.Driver = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseUrl); ok {
		u, err := url.Parse(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDatabaseUrl, err)
		}
		c.Database.Url = &JsonUrl{URL: u}
	}
	if v, ok := os.LookupEnv(EnvDatabasePassword); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv(EnvSqlitePath); ok {
		c.Database.SqlitePath = v
	}
	if v, ok := os.LookupEnv(EnvBoundedFieldPolicy); ok {
		c.Posts.BoundedFieldPolicy = v
	}
	return nil
}

func applyDefaults(c *Configuration) {
	if c.Logging.MaxSize <= 0 {
		c.Logging.MaxSize = 500
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAge <= 0 {
		c.Logging.MaxAge = 28
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Driver == DriverPostgres && c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.Driver == DriverSqlite && c.Database.SqlitePath == "" {
		c.Database.SqlitePath = "posts.db"
	}
	if c.Database.ConnMaxLifetime == nil {
		c.Database.ConnMaxLifetime = &JsonDuration{Duration: time.Hour}
	}
	if c.Posts.BoundedFieldPolicy == "" {
		c.Posts.BoundedFieldPolicy = "reject"
	}
}

func Config() *Configuration {
	return config
}
