// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/crushr/internal/config"
	"github.com/ik5/crushr/internal/logging"
	"github.com/ik5/crushr/library"
	"github.com/ik5/crushr/storage/fsbackend"
	"github.com/ik5/crushr/storage/sinebackend"
	"github.com/ik5/crushr/storage/sqlitebackend"
)

const (
	backendFiles = "files"
	backendIndex = "index"
	backendSine  = "sine"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && *c.logLevelFlag != "" {
			if !logging.ValidLevel(*c.logLevelFlag) {
				c.configErr = fmt.Errorf("invalid --log-level %q", *c.logLevelFlag)
				return
			}
			cfg.Logging.Level = *c.logLevelFlag
		}

		logger, err := logging.New(logging.Options{
			Level:      cfg.Logging.Level,
			Format:     cfg.Logging.Format,
			OutputPath: cfg.Logging.File,
		})
		if err != nil {
			c.configErr = fmt.Errorf("init logging: %w", err)
			return
		}

		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

// openLibrary builds the configured library. The sqlite index, when
// enabled, resolves first and owns the records; the file backend keeps the
// audio.
func (c *commandContext) openLibrary(ctx context.Context) (*library.Library, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	enc, err := cfg.BlobEncoding()
	if err != nil {
		return nil, err
	}

	b := library.NewBuilder().WithLogger(c.logger)
	if cfg.SQLite.Enabled {
		b.Add(backendIndex, sqlitebackend.New(cfg.SQLite.Path, c.logger)).StructuredWriter(backendIndex)
	}
	b.Add(backendFiles, fsbackend.New(cfg.Library.Dir, fsbackend.Options{Encoding: enc, Logger: c.logger})).
		BlobWriter(backendFiles)
	if cfg.Sine.Enabled {
		b.Add(backendSine, sinebackend.New(sinebackend.Options{
			TrackID:   cfg.Sine.TrackID,
			Title:     cfg.Sine.Title,
			Frequency: cfg.Sine.Frequency,
			Amplitude: cfg.Sine.Amplitude,
			Duration:  time.Duration(cfg.Sine.DurationMs) * time.Millisecond,
		}))
	}

	lib, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("library ready",
		logging.FieldComponent, "cli",
		"backends", strings.Join(lib.Backends(), ","),
		"library_dir", filepath.Clean(cfg.Library.Dir),
	)

	return lib, nil
}

// withLibrary opens the library for the duration of fn.
func (c *commandContext) withLibrary(cmd *cobra.Command, fn func(*library.Library) error) (err error) {
	lib, err := c.openLibrary(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := lib.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close library: %w", cerr)
		}
	}()
	return fn(lib)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
