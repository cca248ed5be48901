package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Url      string `json:"url"`
	Port     int    `json:"port"`
	DataDir  string `json:"data_dir"`
	Interval int    `json:"interval"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	err := os.WriteFile(name, []byte(`{
	// comments are allowed here
	url: "https://rankings.example.com/board",
	port: 8000,
	data_dir: "./data",
}`), 0644)
	require.NoError(t, err)

	config, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://rankings.example.com/board", config.Url)
	require.Equal(t, 8000, config.Port)
	require.Equal(t, "./data", config.DataDir)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(
		filepath.Join(dir, "config.json5"),
		[]byte(`{url: "https://rankings.example.com/board", port: 8000, interval: 300}`),
		0644,
	)
	require.NoError(t, err)
	err = os.WriteFile(
		filepath.Join(dir, "config.local.json5"),
		[]byte(`{port: 9999}`),
		0644,
	)
	require.NoError(t, err)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)

	require.Equal(t, "https://rankings.example.com/board", config.Url)
	require.Equal(t, 9999, config.Port)
	require.Equal(t, 300, config.Interval)
}

func TestReadConfigNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
