// Package config loads typed configuration from environment variables.
// Each configuration type is parsed once and cached for later calls.
//
// A .env file in the working directory is loaded on first use when present.
// Parsing is done by caarlos0/env, so struct fields use its env and
// envDefault tags:
//
//	type WorkerConfig struct {
//		Workers int           `env:"CHAIN_WORKERS" envDefault:"4"`
//		Timeout time.Duration `env:"CHAIN_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg WorkerConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure during startup
//	config.MustLoad(&cfg)
//
// Different types are cached independently; loading the same type again
// returns the first result even if the environment changed.
package config
