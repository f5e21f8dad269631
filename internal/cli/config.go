package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/autosplice/autosplice/pkg/errors"
)

// fileConfig holds per-project defaults read from autosplice.toml. Every
// field has a matching command-line flag; flags the user sets explicitly
// win over file values.
type fileConfig struct {
	Prefix      string `toml:"prefix"`
	Symbols     string `toml:"symbols"`
	NoDev       bool   `toml:"no-dev"`
	ComposerBin string `toml:"composer-bin"`

	// WorkingDir moves where Composer runs, not where the default config
	// file is discovered: the default autosplice.toml is always resolved
	// against the --working-dir flag, before file values overlay.
	WorkingDir string `toml:"working-dir"`

	AllowXdebug bool `toml:"allow-xdebug"`
}

// loadConfig reads the config file at path. An empty path means the
// default file in workingDir, and a missing default file is not an error;
// an explicitly configured path must exist.
func loadConfig(path, workingDir string) (fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(workingDir, defaultConfigFile)
	}

	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// applyConfig overlays file values onto opts for every flag the user did
// not set on the command line. changed reports flag presence by name.
func (cfg fileConfig) apply(changed func(name string) bool, opts *dumpOpts) {
	if !changed("prefix") && cfg.Prefix != "" {
		opts.prefix = cfg.Prefix
	}
	if !changed("symbols") && cfg.Symbols != "" {
		opts.symbols = cfg.Symbols
	}
	if !changed("no-dev") && cfg.NoDev {
		opts.noDev = true
	}
	if !changed("composer-bin") && cfg.ComposerBin != "" {
		opts.composerBin = cfg.ComposerBin
	}
	if !changed("working-dir") && cfg.WorkingDir != "" {
		opts.workingDir = cfg.WorkingDir
	}
	if !changed("allow-xdebug") && cfg.AllowXdebug {
		opts.allowXdebug = true
	}
}
