// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/ik5/crushr/formats/wav"
	"github.com/ik5/crushr/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateSQLite(); err != nil {
		return err
	}
	if err := c.validateSine(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

// BlobEncoding returns the parsed library.blob_format.
func (c *Config) BlobEncoding() (wav.Encoding, error) {
	return wav.ParseEncoding(c.Library.BlobFormat)
}

func (c *Config) validateLibrary() error {
	if c.Library.Dir == "" {
		return errors.New("library.dir must be set")
	}
	if _, err := c.BlobEncoding(); err != nil {
		return fmt.Errorf("library.blob_format: %w", err)
	}
	return nil
}

func (c *Config) validateSQLite() error {
	if c.SQLite.Enabled && c.SQLite.Path == "" {
		return errors.New("sqlite.path must be set when sqlite is enabled")
	}
	return nil
}

func (c *Config) validateSine() error {
	if !c.Sine.Enabled {
		return nil
	}
	if c.Sine.TrackID == "" {
		return errors.New("sine.track_id must be set when sine is enabled")
	}
	if c.Sine.Frequency <= 0 {
		return errors.New("sine.frequency must be positive")
	}
	if c.Sine.Amplitude <= 0 || c.Sine.Amplitude > 1 {
		return errors.New("sine.amplitude must be in (0, 1]")
	}
	if c.Sine.DurationMs <= 0 {
		return errors.New("sine.duration_ms must be positive")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.WindowSize <= 0 {
		return errors.New("pipeline.window_size must be positive")
	}
	if c.Pipeline.ChannelCapacity <= 0 {
		return errors.New("pipeline.channel_capacity must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case logging.FormatConsole, logging.FormatJSON:
		return nil
	}
	return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
}
