package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v2"
)

const (
	AppName        = "textvault"
	DefaultDBFile  = "vault.db"
	ConfigFileName = "config.yaml"
	ConfigPathEnv  = "TEXTVAULT_CONFIG"
)

// Referenced as variables so tests can point them elsewhere
var (
	ConfigPath    func() string          = getConfigPath
	userConfigDir func() (string, error) = os.UserConfigDir
)

// Config holds the textvault settings.
//
// Values are resolved as defaults, then the YAML file, then environment.
// The password is never read from the file.
type Config struct {
	DataDir    string `yaml:"data_dir" env:"TEXTVAULT_DIR"`
	DBFile     string `yaml:"db_file" env:"TEXTVAULT_DB"`
	NoKeyring  bool   `yaml:"no_keyring" env:"TEXTVAULT_NO_KEYRING"`
	Password   string `yaml:"-" env:"TEXTVAULT_PASSWORD"`
	configFile string
}

func defaultDataDir() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

func getConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	dir, err := defaultDataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigFileName)
}

// Load builds the configuration from defaults, the config file if it
// exists and environment overrides.
func Load() (*Config, error) {
	c := &Config{DBFile: DefaultDBFile}

	// A missing user config dir is fatal only if nothing overrides DataDir
	dataDir, dirErr := defaultDataDir()
	c.DataDir = dataDir

	if err := c.loadYaml(); err != nil {
		return nil, err
	}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if c.DataDir == "" {
		if dirErr != nil {
			return nil, dirErr
		}
		return nil, errors.New("data directory is not set")
	}
	if c.DBFile == "" {
		c.DBFile = DefaultDBFile
	}
	return c, nil
}

func (c *Config) loadYaml() error {
	cp := ConfigPath()
	if cp == "" {
		return nil
	}

	data, err := os.ReadFile(cp)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("invalid config file %s: %w", cp, err)
	}
	c.configFile = cp
	return nil
}

// File returns the config file that was loaded, or "" if none was
func (c *Config) File() string {
	return c.configFile
}

// DBPath returns the vault database path. An absolute DBFile is used
// as is, a relative one is resolved against DataDir.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.DataDir, c.DBFile)
}

// EnsureDataDir creates the directory holding the database, owner-only.
func (c *Config) EnsureDataDir() error {
	dir := filepath.Dir(c.DBPath())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
