package configutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	ApiKey   string `json:"api_key"`
	Headless bool   `json:"headless"`
	Output   string `json:"output_dir"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "config.local.json5", LocalPath("config.json5"))
	require.Equal(t, "a/b/telemetry.local.json5", LocalPath("a/b/telemetry.json5"))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](path)
	require.True(t, errors.Is(err, os.ErrNotExist))

	writeFile(t, path, `{
		// comments are allowed in json5
		api_key: "default-key",
		headless: true,
		output_dir: "out",
	}`)
	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, testConfig{ApiKey: "default-key", Headless: true, Output: "out"}, cfg)

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{api_key: "local-key"}`)
	cfg, err = ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "local-key", cfg.ApiKey)
	require.Equal(t, "out", cfg.Output)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	writeFile(t, path, `{api_key: `)

	_, err := ReadConfig[testConfig](path)
	require.Error(t, err)
	require.False(t, errors.Is(err, os.ErrNotExist))
}
