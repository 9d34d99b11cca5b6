package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
)

const (
	APP_NAME    = "ember"
	CONFIG_FILE = "config.toml"

	ENV_STD     = "EMBER_STD"
	ENV_RUNTIME = "EMBER_RUNTIME"
)

// TOML keys use the same names as the Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type Config struct {
	Paths Paths
	Tools Tools
	Build Build
}

type Paths struct {
	// Directory searched for imported modules not found next to the
	// importing file
	Std string
	// Runtime support library linked into every executable
	Runtime string
}

type Tools struct {
	Opt   string
	Clang string
}

type Build struct {
	// Frame tracking for debug builds; release builds never track frames
	StackTrace bool
}

func Default() *Config {
	return &Config{
		Paths: Paths{
			Std:     "/usr/local/ember/std",
			Runtime: "/usr/local/ember/runtime/libember.a",
		},
		Tools: Tools{
			Opt:   "opt",
			Clang: "clang",
		},
		Build: Build{StackTrace: true},
	}
}

// StackTrace reports whether code built as buildType tracks call frames.
func (cfg *Config) StackTrace(buildType BuildType) bool {
	return buildType == DEBUG && cfg.Build.StackTrace
}

// Load reads the configuration at file over the defaults. A missing file
// is not an error. Environment variables take precedence over the file.
func Load(file string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(file)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(err, "unable to open config file")
	default:
		defer f.Close()
		err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
		// Add file name to errors that have a line number.
		if _, ok := err.(*toml.LineError); ok {
			err = errors.New(file + ", " + err.Error())
		}
		if err != nil {
			return nil, errors.Wrap(err, "invalid config file")
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDefault loads config.toml from the user's configuration directory.
func LoadDefault() (*Config, error) {
	dir, err := ConfigDir(APP_NAME)
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, CONFIG_FILE))
}

func (cfg *Config) applyEnv() {
	if std := os.Getenv(ENV_STD); std != "" {
		cfg.Paths.Std = std
	}
	if runtime := os.Getenv(ENV_RUNTIME); runtime != "" {
		cfg.Paths.Runtime = runtime
	}
}

// Dump writes cfg in the same format Load reads.
func (cfg *Config) Dump(w io.Writer) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "unable to encode config")
	}
	_, err = w.Write(out)
	return err
}

func ConfigDir(appName string) (string, error) {
	var configDir string

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		configDir = filepath.Join(configHome, appName)
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		if os.Getenv("OS") == "Windows_NT" {
			configDir = filepath.Join(os.Getenv("APPDATA"), appName)
		} else {
			configDir = filepath.Join(homeDir, ".config", appName)
		}
	} else {
		return "", errors.New("could not determine home directory")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", errors.Wrap(err, "unable to create config directory")
	}

	return configDir, nil
}
