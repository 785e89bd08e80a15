package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsEmptyPath(t *testing.T) {
	cfg := &Config{Device: DeviceConfig{Path: "", SizeBytes: 2048}}
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsMisalignedSize(t *testing.T) {
	cfg := &Config{Device: DeviceConfig{Path: "x.bin", SizeBytes: 2050}}
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsTooSmallSize(t *testing.T) {
	cfg := &Config{Device: DeviceConfig{Path: "x.bin", SizeBytes: 80}}
	require.Error(t, Validate(cfg))
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := &Config{Device: DeviceConfig{Path: "x.bin", SizeBytes: 2048}}
	require.NoError(t, Validate(cfg))
}
