package config

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/shell"
)

// Config describes all configuration options
type Config struct {
	Log struct {
		Level string `env:"LEVEL" toml:"level" default:"warn" usage:"Minimum level for log messages (debug, info, warn or error)"`
		JSON  bool   `env:"JSON" toml:"json" default:"false" usage:"Output JSONND instead of pretty console messages"`
	} `env:"LOG" toml:"log"`
	Cache struct {
		EnvVar string `env:"ENV_VAR" toml:"env_var" default:"CTCACHE_DIR" usage:"Environment variable the caching proxy reads its cache directory from"`
		Subdir string `env:"SUBDIR" toml:"subdir" default:"cache" usage:"Cache directory inside the output directory used if EnvVar is unset"`
	} `env:"CACHE" toml:"cache"`
	Fixes struct {
		Flag string `env:"FLAG" toml:"flag" default:"--export-fixes" usage:"Option used to tell the analysis tool where to export fixes"`
	} `env:"FIXES" toml:"fixes"`
	Tidy struct {
		ExtraArgs string `env:"EXTRA_ARGS" toml:"extra_args" usage:"Additional arguments (shell quoted) appended to every analysis run"`
	} `env:"TIDY" toml:"tidy"`
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object
func Loader(files ...string) (*Config, *aconfig.Loader) {
	if len(files) == 0 {
		files = []string{"tidy-tools.toml"}
	}

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		// cobra owns the command line
		SkipFlags: true,
		EnvPrefix: "TIDY",

		// build environments set unrelated TIDY_* variables
		AllowUnknownEnvs:   true,
		AllowUnknownFields: true,

		Files: files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the configuration from the config file and the environment and validates it
func Load(files ...string) (*Config, error) {
	cfg, loader := Loader(files...)
	if err := loader.Load(); err != nil {
		return nil, eris.Wrap(err, "Failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	if cfg.Cache.EnvVar == "" {
		return eris.New(`cache.env_var must not be empty`)
	}

	if cfg.Cache.Subdir == "" {
		return eris.New(`cache.subdir must not be empty`)
	}

	if cfg.Fixes.Flag == "" {
		return eris.New(`fixes.flag must not be empty`)
	}

	if _, err := cfg.ExtraArgs(); err != nil {
		return err
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}

// ExtraArgs splits .Tidy.ExtraArgs into separate arguments
func (cfg *Config) ExtraArgs() ([]string, error) {
	if cfg.Tidy.ExtraArgs == "" {
		return nil, nil
	}

	args, err := shell.Fields(cfg.Tidy.ExtraArgs, func(string) string { return "" })
	if err != nil {
		return nil, eris.Wrapf(err, `Invalid value for tidy.extra_args: %s`, cfg.Tidy.ExtraArgs)
	}

	return args, nil
}
