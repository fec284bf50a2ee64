package config

import (
	"errors"
	"fmt"
	"regexp"

	apperrors "mediasort/internal/errors"
)

// dateDirPattern matches the YYYY.MM.DD date folder format. The one-offs
// bucket name is reserved and may never collide with a date folder.
var dateDirPattern = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

// Validate rejects configuration values outside their valid domain before
// any scanning begins. This is the only hard failure the engine raises.
func (c *Config) Validate() error {
	if err := c.validateFolders(); err != nil {
		return apperrors.Wrap(apperrors.InvalidConfig, "config validate", "", err)
	}
	if err := c.validateOptions(); err != nil {
		return apperrors.Wrap(apperrors.InvalidConfig, "config validate", "", err)
	}
	return nil
}

func (c *Config) validateFolders() error {
	if len(c.Folders.SourceDirs) == 0 {
		return errors.New("folders.source_dirs must list at least one directory")
	}
	for _, dir := range c.Folders.SourceDirs {
		if dir == "" {
			return errors.New("folders.source_dirs must not contain empty paths")
		}
	}
	if c.Folders.TargetDir == "" {
		return errors.New("folders.target_dir must be set")
	}
	if c.Folders.MinFilesPerDir < 0 {
		return errors.New("folders.min_files_per_dir must not be negative")
	}
	if c.Folders.CompactingThreshold < 0 {
		return errors.New("folders.min_files_before_compacting_output must not be negative")
	}
	if c.Folders.OneOffsDirName == "" {
		return errors.New("folders.target_oneoffs_subdir_name must not be empty")
	}
	if dateDirPattern.MatchString(c.Folders.OneOffsDirName) {
		return fmt.Errorf("folders.target_oneoffs_subdir_name %q would collide with date folders", c.Folders.OneOffsDirName)
	}
	return nil
}

func (c *Config) validateOptions() error {
	if c.Options.Threads < 1 {
		return errors.New("options.threads must be at least 1")
	}
	return nil
}
