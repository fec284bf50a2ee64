package config

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	apperrors "mediasort/internal/errors"
)

// Folders configures source and target locations and grouping thresholds.
type Folders struct {
	SourceDirs []string `toml:"source_dirs"`
	TargetDir  string   `toml:"target_dir"`
	// MinFilesPerDir is the minimum number of files a date must exceed to
	// get a dedicated folder; smaller groups collapse into the one-offs
	// bucket.
	MinFilesPerDir int `toml:"min_files_per_dir"`
	// CompactingThreshold elides consecutive preview entries with the same
	// status beyond this count; 0 disables compaction.
	CompactingThreshold int    `toml:"min_files_before_compacting_output"`
	OneOffsDirName      string `toml:"target_oneoffs_subdir_name"`
}

// Options configures run behavior.
type Options struct {
	SourceRecursive   bool `toml:"source_recursive"`
	Threads           int  `toml:"threads"`
	DryRun            bool `toml:"dry_run"`
	Silent            bool `toml:"silent"`
	Verbose           bool `toml:"verbose"`
	CopyNotMove       bool `toml:"copy_not_move"`
	AlignOutput       bool `toml:"align_output"`
	IncludeDeviceMake bool `toml:"include_device_make"`
	AlwaysDeviceDirs  bool `toml:"always_create_device_subdirs"`
}

// Extensions lists operator-extended file extensions per media kind.
// These are treated as partial support since they cannot carry embedded
// metadata by construction.
type Extensions struct {
	Image []string `toml:"image"`
	Video []string `toml:"video"`
	Audio []string `toml:"audio"`
}

// Custom holds operator-provided lookup tables.
type Custom struct {
	// Devices maps EXIF device identities to custom display names,
	// e.g. "SM-A415F" -> "Samsung A41". Keys are matched case-insensitively.
	Devices    map[string]string `toml:"devices"`
	Extensions Extensions        `toml:"extensions"`
}

type Config struct {
	Folders Folders `toml:"folders"`
	Options Options `toml:"options"`
	Custom  Custom  `toml:"custom"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Folders: Folders{
			MinFilesPerDir:      1,
			CompactingThreshold: 0,
			OneOffsDirName:      "Miscellaneous",
		},
		Options: Options{
			SourceRecursive:   true,
			Threads:           4,
			DryRun:            true,
			CopyNotMove:       true,
			AlignOutput:       true,
			IncludeDeviceMake: true,
		},
		Custom: Custom{Devices: map[string]string{}},
	}
}

// Load reads a TOML config file over the defaults. A missing file is not
// an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, apperrors.Wrap(apperrors.IOFailure, "config read", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, apperrors.Wrap(apperrors.InvalidConfig, "config parse", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// normalize lowercases lookup-table keys and extension lists so retrieval
// is case-insensitive.
func (c *Config) normalize() {
	devices := make(map[string]string, len(c.Custom.Devices))
	for k, v := range c.Custom.Devices {
		devices[strings.ToLower(k)] = v
	}
	c.Custom.Devices = devices

	lower := func(exts []string) []string {
		out := make([]string, 0, len(exts))
		for _, e := range exts {
			out = append(out, strings.ToLower(strings.TrimSpace(e)))
		}
		return out
	}
	c.Custom.Extensions.Image = lower(c.Custom.Extensions.Image)
	c.Custom.Extensions.Video = lower(c.Custom.Extensions.Video)
	c.Custom.Extensions.Audio = lower(c.Custom.Extensions.Audio)
}
