// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration comes from. The zero value
	// uses the standard lookup described on Provider.
	LoadOptions struct {
		// ConfigFilePath, when set, is the only file considered. It must exist.
		ConfigFilePath string
		// ConfigDirPath replaces ConfigDir() in the lookup.
		ConfigDirPath string
		// WorkDir is searched for addonhelper.cue; defaults to the process working directory.
		WorkDir string
	}

	// Provider resolves and loads configuration. Without an explicit file it
	// tries <config dir>/config.cue, then ./addonhelper.cue, then falls back
	// to DefaultConfig. ADDONHELPER_* environment variables win over files.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
		// Resolve reports the file Load would read, or "" when only defaults apply.
		Resolve(opts LoadOptions) (string, error)
	}

	cueProvider struct{}
)

// NewProvider returns the Provider backed by CUE files and the environment.
func NewProvider() Provider { return cueProvider{} }

func (cueProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}

func (cueProvider) Resolve(opts LoadOptions) (string, error) { return resolvePath(opts) }
