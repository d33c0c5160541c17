package module

import (
	"factors/internal/core/supplier"
	"factors/internal/platform/config"
)

// Options holds configuration settings for the factorize module.
// flag tags name the CLI flag so validation messages match what users typed
type Options struct {
	Mode        string `flag:"mode" validate:"oneof=line scan"`
	Workers     int    `flag:"workers" validate:"min=1,max=256"`
	BatchSize   int    `flag:"batch" validate:"min=1,max=1000000"`
	LargerFirst bool   `flag:"larger-first"`
}

// FromConfig extracts Options from FACTORS_* env vars
func FromConfig(cfg config.Conf) Options {
	fc := cfg.Prefix("FACTORS_")
	return Options{
		Mode:        fc.MayString("MODE", string(supplier.ModeLine)),
		Workers:     fc.MayInt("WORKERS", 1),
		BatchSize:   fc.MayInt("BATCH", 512),
		LargerFirst: fc.MayBool("LARGER_FIRST", false),
	}
}
