package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSuite(t *testing.T, yamlContent string) string {
	t.Helper()
	tempDir := t.TempDir()

	for _, name := range []string{"TEXTVAULT_DIR", "TEXTVAULT_DB", "TEXTVAULT_PASSWORD", "TEXTVAULT_NO_KEYRING"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	userConfigDir = func() (string, error) { return tempDir, nil }
	cp := filepath.Join(tempDir, ConfigFileName)
	ConfigPath = func() string { return cp }
	t.Cleanup(func() {
		userConfigDir = os.UserConfigDir
		ConfigPath = getConfigPath
	})

	if yamlContent != "" {
		require.NoError(t, os.WriteFile(cp, []byte(yamlContent), 0600))
	}
	return tempDir
}

func TestLoad_Defaults(t *testing.T) {
	tempDir := setupSuite(t, "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, AppName), c.DataDir)
	assert.Equal(t, DefaultDBFile, c.DBFile)
	assert.False(t, c.NoKeyring)
	assert.Empty(t, c.Password)
	assert.Empty(t, c.File())
	assert.Equal(t, filepath.Join(tempDir, AppName, DefaultDBFile), c.DBPath())
}

func TestLoad_YamlFile(t *testing.T) {
	setupSuite(t, `
data_dir: /srv/vault
db_file: secrets.db
no_keyring: true
`)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/vault", c.DataDir)
	assert.Equal(t, "secrets.db", c.DBFile)
	assert.True(t, c.NoKeyring)
	assert.NotEmpty(t, c.File())
	assert.Equal(t, filepath.Join("/srv/vault", "secrets.db"), c.DBPath())
}

func TestLoad_EnvOverridesYaml(t *testing.T) {
	setupSuite(t, `
data_dir: /srv/vault
db_file: secrets.db
`)
	t.Setenv("TEXTVAULT_DIR", "/env/dir")
	t.Setenv("TEXTVAULT_PASSWORD", "from-env")
	t.Setenv("TEXTVAULT_NO_KEYRING", "true")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/env/dir", c.DataDir)
	assert.Equal(t, "secrets.db", c.DBFile)
	assert.Equal(t, "from-env", c.Password)
	assert.True(t, c.NoKeyring)
}

func TestLoad_PasswordNotReadFromFile(t *testing.T) {
	setupSuite(t, "password: hunter2\n")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidYaml(t *testing.T) {
	setupSuite(t, "data_dir: [unterminated\n")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	setupSuite(t, "")
	t.Setenv("TEXTVAULT_NO_KEYRING", "not-a-bool")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_NoUserConfigDir(t *testing.T) {
	setupSuite(t, "")
	userConfigDir = func() (string, error) { return "", errors.New("no home") }
	ConfigPath = func() string { return "" }

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TEXTVAULT_DIR", t.TempDir())
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, os.Getenv("TEXTVAULT_DIR"), c.DataDir)
}

func TestDBPath_Absolute(t *testing.T) {
	c := &Config{DataDir: "/data", DBFile: "/elsewhere/v.db"}
	assert.Equal(t, "/elsewhere/v.db", c.DBPath())
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", AppName)
	c := &Config{DataDir: dir, DBFile: DefaultDBFile}

	require.NoError(t, c.EnsureDataDir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())

	// Idempotent
	require.NoError(t, c.EnsureDataDir())
}

func TestGetConfigPath_Env(t *testing.T) {
	t.Setenv(ConfigPathEnv, "/custom/config.yaml")
	assert.Equal(t, "/custom/config.yaml", getConfigPath())
}
