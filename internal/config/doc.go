// SPDX-License-Identifier: EPL-2.0

// Package config loads the crushr TOML configuration.
//
// Load starts from Default, decodes the file on top of it, expands home
// relative paths and validates the result. A missing file is not an error:
// the defaults are returned and the caller can offer to write a sample with
// CreateSample.
package config
