// Package config holds the one process-wide knob spec.md §6 allows:
// the numeric bit-width cap enforced by the arbitrary-precision number
// parser. Load reads it from the environment via envconfig;
// SetNumberMaxBits replaces it directly and can be called at any time.
package config

import (
	"os"
	"sync/atomic"

	"github.com/mstoykov/envconfig"
)

// defaultNumberBits is spec.md §6's documented default for number.bits.
const defaultNumberBits = 128

// Config is the schema Load reads from the environment, mirroring the
// grafana-k6/cloudapi.Config pattern of one envconfig-tagged struct per
// configuration surface.
type Config struct {
	NumberBits int `envconfig:"JCODEC_NUMBER_BITS"`
}

var numberMaxBits int64 = defaultNumberBits

// Load reads JCODEC_NUMBER_BITS from the environment (via lookup, or
// os.LookupEnv if lookup is nil) and applies it as the process-wide number
// bit cap. Call once at process startup; it is safe to call from exactly
// one goroutine before any decode begins.
func Load(lookup func(key string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Config{NumberBits: defaultNumberBits}
	if err := envconfig.Process("", &cfg, lookup); err != nil {
		return err
	}
	if cfg.NumberBits <= 0 {
		cfg.NumberBits = defaultNumberBits
	}
	SetNumberMaxBits(cfg.NumberBits)
	return nil
}

// NumberMaxBits returns the currently configured bit-width cap used by the
// arbitrary-precision number parser to reject adversarial "billion-digit"
// inputs.
func NumberMaxBits() int {
	return int(atomic.LoadInt64(&numberMaxBits))
}

// SetNumberMaxBits overrides the bit-width cap directly, bypassing the
// environment. Exposed for tests and for callers that source the cap from
// somewhere other than envconfig.
func SetNumberMaxBits(bits int) {
	atomic.StoreInt64(&numberMaxBits, int64(bits))
}
