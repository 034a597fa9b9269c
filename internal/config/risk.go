// Package config loads the risk scoring configuration.
//
// The risk config is read once per process. A missing or unreadable source
// is not an error: the built-in defaults apply. A source that parses but
// breaks an invariant (unordered thresholds, negative weights, a rule that
// reuses a built-in flag name) is rejected with a warning and the defaults
// apply as well.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/ppiankov/clauseguard/internal/risk"
	"github.com/spf13/viper"
)

// LoadRiskConfig reads a YAML or JSON risk config from path and merges it over
// the defaults. It returns an error only when the file exists, parses, and
// fails validation; callers that want the fallback behaviour use Loader.
func LoadRiskConfig(path string) (*model.RiskConfig, error) {
	cfg := model.DefaultRiskConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("stat risk config: %w", errSourceUnavailable(err))
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read risk config: %w", errSourceUnavailable(err))
	}

	// Decoding into the pre-filled defaults merges map keys, so a file that
	// only overrides one weight keeps the other defaults.
	if err := v.Unmarshal(cfg); err != nil {
		return model.DefaultRiskConfig(), fmt.Errorf("decode risk config: %w", errSourceUnavailable(err))
	}

	if err := cfg.Validate(); err != nil {
		return model.DefaultRiskConfig(), err
	}
	// Registering the rules catches names that collide with built-in flags
	if _, err := risk.DefaultRegistry(cfg); err != nil {
		return model.DefaultRiskConfig(), fmt.Errorf("%w: %w", model.ErrInvalidRiskConfig, err)
	}
	return cfg, nil
}

// ErrSourceUnavailable marks load failures that fall back silently
var ErrSourceUnavailable = errors.New("risk config source unavailable")

func errSourceUnavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
}

// Loader guards a single load of the risk config shared by every document
// analyzed in the process
type Loader struct {
	path string
	log  logging.Logger

	once sync.Once
	cfg  *model.RiskConfig
}

// NewLoader creates a loader for the given path ("" means defaults only)
func NewLoader(path string, log logging.Logger) *Loader {
	return &Loader{path: path, log: logging.OrNop(log).Named("config")}
}

// Get returns the loaded config, loading it on first use. It never fails.
func (l *Loader) Get() *model.RiskConfig {
	l.once.Do(func() {
		cfg, err := LoadRiskConfig(l.path)
		switch {
		case err == nil:
			if l.path != "" {
				l.log.Debug("loaded risk config", logging.String("path", l.path))
			}
		case errors.Is(err, ErrSourceUnavailable):
			l.log.Debug("risk config unavailable, using defaults",
				logging.String("path", l.path), logging.Err(err))
		default:
			l.log.Warn("risk config rejected, using defaults",
				logging.String("path", l.path), logging.Err(err))
		}
		l.cfg = cfg
	})
	return l.cfg
}
