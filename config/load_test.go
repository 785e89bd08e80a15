package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "device.yaml")
	yaml := "device:\n  path: " + filepath.Join(dir, "nonvolatile.bin") + "\n  size_bytes: 2048\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint32(2048), cfg.Device.SizeBytes)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "device.yaml")
	yaml := "device:\n  path: " + filepath.Join(dir, "nonvolatile.bin") + "\n  size_bytes: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
