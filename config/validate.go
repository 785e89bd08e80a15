// validate.go
package config

import (
	"fmt"

	"github.com/embedCreativity/EEPROM-FS/consts"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg.Device.Path == "" {
		return fmt.Errorf("device: path must not be empty")
	}
	if cfg.Device.SizeBytes%consts.WordSize != 0 {
		return fmt.Errorf("device: size_bytes (%d) must be a multiple of %d", cfg.Device.SizeBytes, consts.WordSize)
	}
	if cfg.Device.SizeBytes <= consts.FirstFileAddr {
		return fmt.Errorf("device: size_bytes (%d) must exceed the file table region (%d)", cfg.Device.SizeBytes, consts.FirstFileAddr)
	}
	return nil
}
