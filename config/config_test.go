package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  env: test
  serviceName: companyd
  log:
    pretty: true
    level: debug

http:
  port: 8080

store:
  driver: memory

auth:
  bcryptCost: 10
`

func writeTestConfig(t *testing.T, name, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o600))
	t.Chdir(dir)
}

func TestLoad_ReadsYAML(t *testing.T) {
	writeTestConfig(t, "companyd", testYAML)

	cfg, err := Load("companyd")
	require.NoError(t, err)
	assert.Equal(t, "companyd", cfg.Env.ServiceName)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	writeTestConfig(t, "companyd", testYAML)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "firestore")

	cfg, err := Load("companyd")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, StoreDriverFirestore, cfg.Store.Driver)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("nonexistent")
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	writeTestConfig(t, "companyd", `
http:
  port: 99999
`)

	_, err := Load("companyd")
	assert.Error(t, err)
}

func TestInitialPasswordDefaults(t *testing.T) {
	var cfg *InitialPasswordConfig
	assert.Equal(t, PasswordModeFixed, cfg.EffectiveMode())
	assert.Equal(t, "admin", cfg.EffectiveFixedValue())

	cfg = &InitialPasswordConfig{Mode: PasswordModeGenerated, FixedValue: "letmein"}
	assert.Equal(t, PasswordModeGenerated, cfg.EffectiveMode())
	assert.Equal(t, "letmein", cfg.EffectiveFixedValue())
}
