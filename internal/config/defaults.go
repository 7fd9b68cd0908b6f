// SPDX-License-Identifier: EPL-2.0

package config

const (
	defaultConfigPath      = "~/.config/crushr/config.toml"
	defaultLibraryDir      = "~/.local/share/crushr/library"
	defaultBlobFormat      = "float32"
	defaultSQLitePath      = "~/.local/share/crushr/crushr.db"
	defaultSineTrackID     = "sine"
	defaultSineTitle       = "Test tone"
	defaultSineFrequency   = 440.0
	defaultSineAmplitude   = 0.25
	defaultSineDurationMs  = 1000
	defaultWindowSize      = 1024
	defaultChannelCapacity = 4096
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Library: Library{
			Dir:        defaultLibraryDir,
			BlobFormat: defaultBlobFormat,
		},
		SQLite: SQLite{
			Path: defaultSQLitePath,
		},
		Sine: Sine{
			TrackID:    defaultSineTrackID,
			Title:      defaultSineTitle,
			Frequency:  defaultSineFrequency,
			Amplitude:  defaultSineAmplitude,
			DurationMs: defaultSineDurationMs,
		},
		Pipeline: Pipeline{
			WindowSize:      defaultWindowSize,
			ChannelCapacity: defaultChannelCapacity,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
