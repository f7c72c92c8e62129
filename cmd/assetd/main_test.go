package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memohai/assetd/internal/config"
)

func TestResolveConfigPath(t *testing.T) {
	t.Cleanup(func() { configPath = "" })

	t.Setenv("CONFIG_PATH", "")
	configPath = ""
	assert.Equal(t, config.DefaultConfigPath, resolveConfigPath())

	t.Setenv("CONFIG_PATH", "/etc/assetd.toml")
	assert.Equal(t, "/etc/assetd.toml", resolveConfigPath())

	configPath = "local.toml"
	assert.Equal(t, "local.toml", resolveConfigPath())
}

func TestTokenCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[auth]\njwt_secret = \"cli-secret\"\n"), 0o600))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"token", "--config", path, "--user", "u-42", "--ttl", "1h"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configPath = ""
	})
	require.NoError(t, rootCmd.Execute())

	raw := strings.TrimSpace(stdout.String())
	parsed, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return []byte("cli-secret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "u-42", claims["sub"])
	assert.Contains(t, stderr.String(), "expires at")
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(stdout.String(), "assetd "))
}
