// Package config loads environment driven settings into tagged structs.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tag parsing). Every configurable package
// of this module exposes a Config or EnvConfig struct with `env` and
// `envDefault` tags plus a DefaultConfig constructor; Load fills such a struct
// from the environment:
//
//	var sessCfg session.EnvConfig
//	var httpCfg transport.Config
//	if err := errors.Join(
//		config.Load(&sessCfg),
//		config.Load(&httpCfg, config.WithEnvFiles(".env.local")),
//	); err != nil {
//		log.Fatal(err)
//	}
//
// WithPrefix lets one struct type be loaded several times for differently
// named variables, and WithEnviron parses a fixed map, which keeps tests
// independent from the process environment.
//
// Errors wrap ErrParsingConfig, ErrEnvFile or ErrNilPointer and can be checked
// with errors.Is.
package config
