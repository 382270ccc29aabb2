package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (SPMCLEANUP_INPUT_PATH, ...).
const EnvPrefix = "SPMCLEANUP"

// DotEnvFile is loaded from the working directory when present. Variables
// already set in the environment win over the file.
var DotEnvFile = ".env"

// fileConfig mirrors the keys accepted in a config file or the environment.
// Keys match the CLI flag names.
type fileConfig struct {
	InputPath    string   `mapstructure:"input_path"`
	PreprocLabel string   `mapstructure:"preproc_label"`
	Method       string   `mapstructure:"method"`
	RelPath      string   `mapstructure:"rel_path"`
	AlsoKeep     []string `mapstructure:"also_keep"`
	OutPath      string   `mapstructure:"out_path"`
	Log          string   `mapstructure:"log"`
	Color        string   `mapstructure:"color"`
	Verbose      bool     `mapstructure:"verbose"`
}

var fileKeys = []string{
	"input_path", "preproc_label", "method", "rel_path", "also_keep",
	"out_path", "log", "color", "verbose",
}

// LoadFile applies the optional config file at path and any SPMCLEANUP_*
// environment variables to cfg. Only keys that are actually set override
// cfg, so defaults survive a partial file. An empty path skips the file
// but still reads the environment.
func LoadFile(cfg *Config, path string) error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range fileKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var raw fileConfig
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&raw, hook); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	if v.IsSet("input_path") {
		cfg.InputDir = raw.InputPath
	}
	if v.IsSet("preproc_label") {
		cfg.PreprocLabel = raw.PreprocLabel
	}
	if v.IsSet("method") {
		cfg.Method = Method(strings.TrimSpace(raw.Method))
	}
	if v.IsSet("rel_path") {
		cfg.RelPath = raw.RelPath
	}
	if v.IsSet("also_keep") {
		cfg.AlsoKeep = cleanList(raw.AlsoKeep)
	}
	if v.IsSet("out_path") {
		cfg.OutputDir = raw.OutPath
	}
	if v.IsSet("log") {
		cfg.LogFile = raw.Log
	}
	if v.IsSet("color") {
		cfg.ColorMode = ColorMode(strings.ToLower(strings.TrimSpace(raw.Color)))
	}
	if v.IsSet("verbose") {
		cfg.Verbose = raw.Verbose
	}
	return nil
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		out = append(out, SplitList(item)...)
	}
	return out
}
