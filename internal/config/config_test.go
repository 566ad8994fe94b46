package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPServer.Address)
	assert.Equal(t, 30*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, "1234", cfg.ATM.PIN)
	assert.Equal(t, 10, cfg.ATM.PINHashCost)
	assert.Equal(t, 5, cfg.Throttle.Burst)
	assert.Equal(t, "info", cfg.Logger.Level)

	balance, err := cfg.StartingBalance()
	require.NoError(t, err)
	assert.Equal(t, "1000.00", balance.StringFixed(2))
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
http_server:
  run_address: 0.0.0.0:9000
atm:
  starting_balance: "250.75"
  pin: "9999"
  pin_hash_cost: 4
throttle:
  interval: 2s
  burst: 2
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPServer.Address)
	assert.Equal(t, "9999", cfg.ATM.PIN)
	assert.Equal(t, 4, cfg.ATM.PINHashCost)
	assert.Equal(t, 2*time.Second, cfg.Throttle.Interval)
	assert.Equal(t, 2, cfg.Throttle.Burst)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout)

	balance, err := cfg.StartingBalance()
	require.NoError(t, err)
	assert.Equal(t, "250.75", balance.StringFixed(2))
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
atm:
  starting_balance: "10"
  pin: "1111"
`)

	cfg, err := Load(path, []string{"-config", path, "-b", "20", "-p", "2222", "-a", ":7000"})
	require.NoError(t, err)
	assert.Equal(t, "20", cfg.ATM.StartingBalance)
	assert.Equal(t, "2222", cfg.ATM.PIN)
	assert.Equal(t, ":7000", cfg.HTTPServer.Address)

	t.Setenv("ATM_PIN", "3333")

	cfg, err = Load(path, []string{"-p", "2222"})
	require.NoError(t, err)
	assert.Equal(t, "3333", cfg.ATM.PIN)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "negative balance", content: "atm:\n  starting_balance: \"-1\"\n"},
		{name: "not a number", content: "atm:\n  starting_balance: \"lots\"\n"},
		{name: "hash cost too low", content: "atm:\n  pin_hash_cost: 2\n"},
		{name: "zero burst", content: "throttle:\n  burst: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadEmptyFlags(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yml")

	_, err := Load(missing, []string{"-p", ""})
	assert.ErrorContains(t, err, "pin must not be empty")

	_, err = Load(missing, []string{"-b", ""})
	assert.ErrorContains(t, err, "starting balance")

	t.Setenv("ATM_PIN", "4321")

	cfg, err := Load(missing, []string{"-p", ""})
	require.NoError(t, err)
	assert.Equal(t, "4321", cfg.ATM.PIN)
}

func TestLoadArgs(t *testing.T) {
	path := writeConfig(t, "throttle:\n  burst: 7\n")

	cfg, err := LoadArgs([]string{"-config", path, "-p", "5555"})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Throttle.Burst)
	assert.Equal(t, "5555", cfg.ATM.PIN)
}

func TestConfigPathFromArgs(t *testing.T) {
	assert.Equal(t, "./config/local.yml", configPathFromArgs(nil))
	assert.Equal(t, "a.yml", configPathFromArgs([]string{"-config", "a.yml"}))
	assert.Equal(t, "b.yml", configPathFromArgs([]string{"-a", ":1", "--config=b.yml"}))
	assert.Equal(t, "c.yml", configPathFromArgs([]string{"-config=c.yml"}))
}
