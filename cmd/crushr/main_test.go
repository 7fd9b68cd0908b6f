// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ik5/crushr"
	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/formats/wav"
	"github.com/ik5/crushr/library"
	"github.com/ik5/crushr/storage"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[library]
dir = %q
blob_format = "pcm16"

[sqlite]
enabled = true
path = %q

[sine]
enabled = true
track_id = "tone"
title = "Test tone"
frequency = 440.0
amplitude = 0.25
duration_ms = 250

[pipeline]
window_size = 64
channel_capacity = 256

[logging]
level = "error"
`, filepath.Join(base, "library"), filepath.Join(base, "crushr.db"))

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output, got %q", needle, haystack)
	}
}

func writeTestWAV(t *testing.T, path string, spec audio.SignalSpec, frames int) {
	t.Helper()

	samples := make([]int16, frames*spec.Channels)
	for i := range samples {
		samples[i] = int16((i%100 - 50) * 200)
	}

	var buf bytes.Buffer
	if err := wav.WriteWAV16(&buf, spec, samples); err != nil {
		t.Fatalf("WriteWAV16: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

func openWAV(t *testing.T, path string) *codec.Session {
	t.Helper()

	s, err := crushr.OpenFile(path, codec.DecoderOptions{})
	if err != nil {
		t.Fatalf("OpenFile(%s): %v", path, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Sine:     tone")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("config init overwrote an existing file without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"--log-level", "loud", "query"}, env.configPath); err == nil {
		t.Fatal("expected an error for an invalid --log-level")
	}
}

func TestCLITrackLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	src := filepath.Join(env.baseDir, "input.wav")
	writeTestWAV(t, src, audio.SignalSpec{Rate: 8000, Channels: 2}, 8000)

	out, _, err := runCLI(t, []string{"import", "--title", "Blue Train", src}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		t.Fatalf("import printed no id: %q", out)
	}
	id := fields[0]

	out, _, err = runCLI(t, []string{"query", "blue", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	var tracks []storage.Track
	if err := json.Unmarshal([]byte(out), &tracks); err != nil {
		t.Fatalf("decode query output: %v (%q)", err, out)
	}
	if len(tracks) != 1 || tracks[0].ID != id || tracks[0].Title != "Blue Train" {
		t.Fatalf("query returned %+v", tracks)
	}

	out, _, err = runCLI(t, []string{"query"}, env.configPath)
	if err != nil {
		t.Fatalf("query table: %v", err)
	}
	requireContains(t, out, "Blue Train")
	requireContains(t, out, "Test tone")

	out, _, err = runCLI(t, []string{"get", id}, env.configPath)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	requireContains(t, out, "Blue Train")
	requireContains(t, out, "0:01.000")

	exported := filepath.Join(env.baseDir, "mono.wav")
	out, _, err = runCLI(t, []string{"export", id, exported, "--rate", "4000"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "at 4000 Hz")
	if spec := openWAV(t, exported).SignalSpec(); spec != (audio.SignalSpec{Rate: 4000, Channels: 1}) {
		t.Errorf("exported spec = %s", spec)
	}

	filtered := filepath.Join(env.baseDir, "filtered.wav")
	out, _, err = runCLI(t, []string{"filter", id, filtered, "--gain", "0.5", "--lowpass", "1000", "--encoding", "pcm16"}, env.configPath)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	requireContains(t, out, "Wrote 8000 frames through 4 stages")

	s := openWAV(t, filtered)
	if s.SignalSpec() != (audio.SignalSpec{Rate: 8000, Channels: 2}) {
		t.Errorf("filtered spec = %s", s.SignalSpec())
	}
	if _, err := s.ReadAll(); err != nil {
		t.Fatalf("decode filtered: %v", err)
	}
	if s.FramesDecoded() != 8000 {
		t.Errorf("filtered frames = %d, want 8000", s.FramesDecoded())
	}

	out, _, err = runCLI(t, []string{"rm", id}, env.configPath)
	if err != nil {
		t.Fatalf("rm: %v", err)
	}
	requireContains(t, out, "Removed "+id)

	_, _, err = runCLI(t, []string{"get", id}, env.configPath)
	if !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("get after rm error = %v, want ErrNotFound", err)
	}
}

func TestExportRawSine(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.baseDir, "tone.wav")
	out, _, err := runCLI(t, []string{"export", "tone", target, "--raw"}, env.configPath)
	if err != nil {
		t.Fatalf("export --raw: %v", err)
	}
	requireContains(t, out, "bytes to")

	s := openWAV(t, target)
	samples, err := s.ReadAll()
	if err != nil {
		t.Fatalf("decode tone: %v", err)
	}
	if len(samples) != 44100/4 {
		t.Errorf("tone samples = %d, want %d", len(samples), 44100/4)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "0s", want: "0:00.000"},
		{in: "1s", want: "0:01.000"},
		{in: "61.5s", want: "1:01.500"},
		{in: "250ms", want: "0:00.250"},
	}

	for _, tt := range tests {
		d, err := time.ParseDuration(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := formatDuration(d); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
