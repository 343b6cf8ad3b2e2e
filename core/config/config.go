package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// envOnce guards the one-time .env autoload. A missing .env file is
	// not an error; explicit environment variables always win.
	envOnce sync.Once

	// cache stores one loaded value per configuration type.
	cache sync.Map // reflect.Type -> loaded config value
)

// Load populates cfg from environment variables using the struct's env tags.
// The first call for a given type parses the environment; subsequent calls
// return the cached value, so a configuration type is loaded at most once
// per process.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	envOnce.Do(func() {
		_ = godotenv.Load()
	})

	t := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(t); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingFailed, err)
	}

	// LoadOrStore keeps the first winner if two goroutines race the parse.
	actual, _ := cache.LoadOrStore(t, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is Load that panics on failure, for use during startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
