// SPDX-License-Identifier: EPL-2.0

package library_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/ik5/crushr"
	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/formats/wav"
	"github.com/ik5/crushr/internal/audiotest"
	"github.com/ik5/crushr/internal/logging"
	"github.com/ik5/crushr/library"
	"github.com/ik5/crushr/storage"
	"github.com/ik5/crushr/storage/fsbackend"
	"github.com/ik5/crushr/storage/sinebackend"
)

func track(id, title string) *storage.Track {
	return &storage.Track{ID: id, Title: title, Duration: time.Minute, Source: id}
}

func build(t *testing.T, b *library.Builder) *library.Library {
	t.Helper()

	lib, err := b.Build(t.Context())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func ids(tracks []*storage.Track) []string {
	out := make([]string, 0, len(tracks))
	for _, tr := range tracks {
		out = append(out, tr.ID)
	}
	return out
}

func TestBuild_InitOrder(t *testing.T) {
	t.Parallel()

	var order []string
	a, b, c := newMem("a"), newMem("b"), newMem("c")
	for _, m := range []*memBackend{a, b, c} {
		m.order = &order
	}

	lib := build(t, library.NewBuilder().Add("a", a).Add("b", b).Add("c", c))

	if !slices.Equal(order, []string{"a", "b", "c"}) {
		t.Errorf("init order = %v", order)
	}
	if !slices.Equal(lib.Backends(), []string{"a", "b", "c"}) {
		t.Errorf("Backends() = %v", lib.Backends())
	}
	for _, m := range []*memBackend{a, b, c} {
		if n := m.inits.Load(); n != 1 {
			t.Errorf("%s initialized %d times", m.name, n)
		}
	}
}

func TestBuild_InitFailureAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk missing")
	a, b, c := newMem("a"), newMem("b"), newMem("c")
	b.initErr = boom

	_, err := library.NewBuilder().Add("a", a).Add("b", b).Add("c", c).Build(t.Context())

	var initErr *library.BackendInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("Build() error = %v, want *BackendInitError", err)
	}
	if initErr.Name != "b" || !errors.Is(err, boom) {
		t.Errorf("BackendInitError = %+v", initErr)
	}
	if c.inits.Load() != 0 {
		t.Error("backend after the failure was initialized")
	}
}

func TestBuild_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		builder *library.Builder
		want    error
	}{
		{name: "duplicate", builder: library.NewBuilder().Add("a", newMem("a")).Add("a", newMem("a")), want: library.ErrDuplicateBackend},
		{name: "unknown writer", builder: library.NewBuilder().Add("a", newMem("a")).StructuredWriter("zz"), want: library.ErrUnknownBackend},
		{name: "incapable writer", builder: library.NewBuilder().Add("a", newMem("a")).BlobWriter("a"), want: library.ErrNoWriter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := tt.builder.Build(t.Context()); !errors.Is(err, tt.want) {
				t.Fatalf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetTrack_FirstMatchWins(t *testing.T) {
	t.Parallel()

	first := newMem("first", track("x", "From first"))
	second := newMem("second", track("x", "From second"), track("y", "Only second"))
	lib := build(t, library.NewBuilder().Add("first", first).Add("second", second))

	got, err := lib.GetTrack(t.Context(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "From first" {
		t.Errorf("Title = %q, want From first", got.Title)
	}
	if n := second.gets.Load(); n != 0 {
		t.Errorf("second backend consulted %d times", n)
	}

	got, err = lib.GetTrack(t.Context(), "y")
	if err != nil || got.Title != "Only second" {
		t.Errorf("GetTrack(y) = %+v, %v", got, err)
	}
}

func TestGetTrack_SwallowsBackendErrors(t *testing.T) {
	t.Parallel()

	broken := newMem("broken")
	broken.failGet = errors.New("connection reset")
	good := newMem("good", track("x", "Good"))
	lib := build(t, library.NewBuilder().Add("broken", broken).Add("good", good))

	got, err := lib.GetTrack(t.Context(), "x")
	if err != nil || got.Title != "Good" {
		t.Fatalf("GetTrack() = %+v, %v", got, err)
	}

	_, err = lib.GetTrack(t.Context(), "missing")
	if !errors.Is(err, library.ErrNotFound) || !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetTrack(missing) error = %v, want ErrNotFound", err)
	}
	if broken.gets.Load() != 2 || good.gets.Load() != 2 {
		t.Errorf("backend calls = %d/%d, want 2/2", broken.gets.Load(), good.gets.Load())
	}
}

func TestGetTrack_Idempotent(t *testing.T) {
	t.Parallel()

	origin := newMem("origin", track("x", "Cached"))
	lib := build(t, library.NewBuilder().Add("origin", origin))

	first, err := lib.GetTrack(t.Context(), "x")
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		again, err := lib.GetTrack(t.Context(), "x")
		if err != nil || *again != *first {
			t.Fatalf("GetTrack() = %+v, %v, want %+v", again, err, first)
		}
	}
	if n := origin.gets.Load(); n != 1 {
		t.Errorf("backend consulted %d times, want 1", n)
	}

	if _, err := lib.RemoveBackend("origin"); err != nil {
		t.Fatal(err)
	}
	again, err := lib.GetTrack(t.Context(), "x")
	if err != nil || *again != *first {
		t.Fatalf("GetTrack() after removal = %+v, %v", again, err)
	}

	lib.Invalidate("x")
	if _, err := lib.GetTrack(t.Context(), "x"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("GetTrack() after invalidation error = %v", err)
	}
}

func TestGetTrack_DeleteDuringRead(t *testing.T) {
	t.Parallel()

	m := newMem("m", track("x", "Doomed"))
	m.entered = make(chan struct{}, 1)
	m.hold = make(chan struct{})
	lib := build(t, library.NewBuilder().Add("m", m))

	done := make(chan error, 1)
	go func() {
		_, err := lib.GetTrack(t.Context(), "x")
		done <- err
	}()

	<-m.entered
	if err := lib.DeleteTrack(t.Context(), "x"); err != nil {
		t.Fatalf("DeleteTrack() error = %v", err)
	}
	close(m.hold)
	if err := <-done; err != nil {
		t.Fatalf("in-flight GetTrack() error = %v", err)
	}

	if n := lib.CacheLen(); n != 0 {
		t.Errorf("CacheLen() = %d after delete, want 0", n)
	}
	if got, err := lib.GetTrack(t.Context(), "x"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("GetTrack() after delete = %+v, %v, want ErrNotFound", got, err)
	}
}

func TestGetTrack_InvalidateDuringRead(t *testing.T) {
	t.Parallel()

	m := newMem("m", track("x", "Old"))
	m.entered = make(chan struct{}, 1)
	m.hold = make(chan struct{})
	lib := build(t, library.NewBuilder().Add("m", m))

	done := make(chan error, 1)
	go func() {
		_, err := lib.GetTrack(t.Context(), "x")
		done <- err
	}()

	<-m.entered
	m.set(track("x", "New"))
	lib.Invalidate("x")
	close(m.hold)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if n := lib.CacheLen(); n != 0 {
		t.Errorf("stale read was cached, CacheLen() = %d", n)
	}
}

func TestQuery_IncludesCachedTracks(t *testing.T) {
	t.Parallel()

	a := newMem("a", track("a1", "Alpha"))
	b := newMem("b", track("b1", "Beta"), track("b2", "Bravo"))
	lib := build(t, library.NewBuilder().Add("a", a).Add("b", b))

	if _, err := lib.GetTrack(t.Context(), "b1"); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.RemoveBackend("b"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		query storage.TrackQuery
		want  []string
	}{
		{name: "all", query: storage.TrackQuery{}, want: []string{"a1", "b1"}},
		{name: "filter applies to cached", query: storage.TrackQuery{Title: "alp"}, want: []string{"a1"}},
		{name: "cached only", query: storage.TrackQuery{Title: "BETA"}, want: []string{"b1"}},
		{name: "paged", query: storage.TrackQuery{ReadCursor: 1, MaxResponse: 1}, want: []string{"b1"}},
	}

	for _, tt := range tests {
		got, err := lib.Query(t.Context(), tt.query)
		if err != nil {
			t.Fatalf("%s: Query() error = %v", tt.name, err)
		}
		if !slices.Equal(ids(got), tt.want) {
			t.Errorf("%s: Query() = %v, want %v", tt.name, ids(got), tt.want)
		}
	}
}

func TestQuery_MergeAndOrder(t *testing.T) {
	t.Parallel()

	a := newMem("a", track("1", "Blue Train"), track("2", "Locomotion"), track("dup", "From A"))
	b := newMem("b", track("3", "BLUE MONK"), track("4", "Lazy Bird"), track("dup", "From B"))
	lib := build(t, library.NewBuilder().Add("a", a).Add("b", b))

	tests := []struct {
		name  string
		query storage.TrackQuery
		want  []string
	}{
		{name: "all", query: storage.TrackQuery{}, want: []string{"3", "1", "dup", "4", "2"}},
		{name: "folded", query: storage.TrackQuery{Title: "blue"}, want: []string{"3", "1"}},
		{name: "page", query: storage.TrackQuery{ReadCursor: 1, MaxResponse: 2}, want: []string{"1", "dup"}},
		{name: "past end", query: storage.TrackQuery{ReadCursor: 9}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := lib.Query(t.Context(), tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(ids(got), tt.want) {
				t.Errorf("Query() = %v, want %v", ids(got), tt.want)
			}
		})
	}

	dup, err := lib.GetTrack(t.Context(), "dup")
	if err != nil || dup.Title != "From A" {
		t.Errorf("GetTrack(dup) = %+v, %v, want the first backend's record", dup, err)
	}
}

func TestQuery_Stable(t *testing.T) {
	t.Parallel()

	a := newMem("a")
	for i := range 20 {
		a.set(track(string(rune('a'+i)), "Same title"))
	}
	lib := build(t, library.NewBuilder().Add("a", a).Add("b", newMem("b", track("z1", "same TITLE"))))

	q := storage.TrackQuery{MaxResponse: 15}
	first, err := lib.Query(t.Context(), q)
	if err != nil {
		t.Fatal(err)
	}
	second, err := lib.Query(t.Context(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 15 || !slices.Equal(ids(first), ids(second)) {
		t.Fatalf("Query() not stable: %v vs %v", ids(first), ids(second))
	}
}

func TestQuery_RefreshesCacheAndRefilters(t *testing.T) {
	t.Parallel()

	m := newMem("m", track("x", "Old title"), track("y", "Giant Steps"))
	m.sloppy = true
	lib := build(t, library.NewBuilder().Add("m", m))

	if _, err := lib.GetTrack(t.Context(), "x"); err != nil {
		t.Fatal(err)
	}
	m.set(track("x", "New title"))

	got, err := lib.Query(t.Context(), storage.TrackQuery{Title: "title"})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids(got), []string{"x"}) {
		t.Fatalf("Query() = %v, want [x]", ids(got))
	}

	cached, err := lib.GetTrack(t.Context(), "x")
	if err != nil || cached.Title != "New title" {
		t.Errorf("cache not refreshed: %+v, %v", cached, err)
	}
	if lib.CacheLen() != 2 {
		t.Errorf("CacheLen() = %d, want 2", lib.CacheLen())
	}
	lib.Purge()
	if lib.CacheLen() != 0 {
		t.Errorf("CacheLen() after Purge = %d", lib.CacheLen())
	}
}

func TestQuery_BackendFailures(t *testing.T) {
	t.Parallel()

	broken := newMem("broken")
	broken.failQry = errors.New("timeout")

	lib := build(t, library.NewBuilder().Add("broken", broken).Add("ok", newMem("ok", track("x", "X"))))
	got, err := lib.Query(t.Context(), storage.TrackQuery{})
	if err != nil || len(got) != 1 {
		t.Fatalf("Query() with one failing backend = %v, %v", ids(got), err)
	}

	only := build(t, library.NewBuilder().Add("broken", broken))
	if _, err := only.Query(t.Context(), storage.TrackQuery{}); err == nil {
		t.Fatal("expected error when every backend fails")
	}

	empty := build(t, library.NewBuilder())
	if got, err := empty.Query(t.Context(), storage.TrackQuery{}); err != nil || len(got) != 0 {
		t.Fatalf("Query() without backends = %v, %v", got, err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	m := newMem("m")
	for i := range 50 {
		m.set(track(string(rune('A'+i)), "Track"))
	}
	lib := build(t, library.NewBuilder().Add("m", m))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Go(func() {
			for j := range 50 {
				id := string(rune('A' + (i*7+j)%50))
				if _, err := lib.GetTrack(t.Context(), id); err != nil {
					t.Errorf("GetTrack(%s) error = %v", id, err)
				}
				if j%10 == 0 {
					if _, err := lib.Query(t.Context(), storage.TrackQuery{}); err != nil {
						t.Errorf("Query() error = %v", err)
					}
					lib.Invalidate(id)
				}
			}
		})
	}
	wg.Go(func() {
		for range 20 {
			_ = lib.AddBackend(t.Context(), "extra", newMem("extra"))
			_, _ = lib.RemoveBackend("extra")
		}
	})
	wg.Wait()
}

func TestRuntimeRegistry(t *testing.T) {
	t.Parallel()

	first := newMem("first")
	lib := build(t, library.NewBuilder().Add("first", first))

	failing := newMem("failing")
	failing.initErr = errors.New("nope")
	var initErr *library.BackendInitError
	if err := lib.AddBackend(t.Context(), "failing", failing); !errors.As(err, &initErr) {
		t.Fatalf("AddBackend(failing) error = %v", err)
	}
	if err := lib.AddBackend(t.Context(), "first", newMem("first")); !errors.Is(err, library.ErrDuplicateBackend) {
		t.Fatalf("AddBackend(dup) error = %v", err)
	}

	second := newMem("second", track("s", "Second"))
	if err := lib.AddBackend(t.Context(), "second", second); err != nil {
		t.Fatal(err)
	}
	if got, err := lib.GetTrack(t.Context(), "s"); err != nil || got.Title != "Second" {
		t.Fatalf("GetTrack() from added backend = %+v, %v", got, err)
	}

	// Writes move to the next capable backend once the writer is removed.
	if _, err := lib.RemoveBackend("first"); err != nil {
		t.Fatal(err)
	}
	if err := lib.PutArtist(t.Context(), &storage.Artist{ID: "a", Name: "A"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := second.artists["a"]; !ok {
		t.Error("artist not written to the remaining backend")
	}
	if _, err := lib.RemoveBackend("first"); !errors.Is(err, library.ErrUnknownBackend) {
		t.Errorf("second RemoveBackend error = %v", err)
	}
}

func TestRecordWrites(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	reader := newMem("reader", track("x", "X"))
	writer := newMem("writer", track("x", "X"))
	lib := build(t, library.NewBuilder().Add("reader", reader).Add("writer", writer).StructuredWriter("writer"))

	if err := lib.PutRelease(ctx, &storage.Release{ID: "r", Title: "R"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := writer.releases["r"]; !ok {
		t.Error("release not routed to the designated writer")
	}
	if _, ok := reader.releases["r"]; ok {
		t.Error("release written to a non-designated backend")
	}
	if err := lib.DeleteRelease(ctx, "r"); err != nil {
		t.Fatal(err)
	}
	if err := lib.DeleteArtist(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteArtist(missing) error = %v", err)
	}

	updated := track("x", "Renamed")
	if err := lib.UpdateTrack(ctx, updated); err != nil {
		t.Fatal(err)
	}
	if got, _ := lib.GetTrack(ctx, "x"); got.Title != "Renamed" {
		t.Errorf("cache after UpdateTrack = %+v", got)
	}

	if err := lib.DeleteTrack(ctx, "x"); err != nil {
		t.Fatal(err)
	}
	if lib.CacheLen() != 0 {
		t.Error("DeleteTrack left the track cached")
	}
	if err := lib.DeleteTrack(ctx, "x"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("second DeleteTrack error = %v", err)
	}
}

func TestNoWriters(t *testing.T) {
	t.Parallel()

	lib := build(t, library.NewBuilder().Add("sine", sinebackend.New(sinebackend.Options{
		TrackID: "sine", Frequency: 440, Amplitude: 0.5, Duration: time.Second,
	})))

	src, err := audiotest.FloatSession(audio.SignalSpec{Rate: 8000, Channels: 1}, make([]float64, 80))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.CreateAudio(t.Context(), src, "x"); !errors.Is(err, library.ErrNoWriter) {
		t.Errorf("CreateAudio() error = %v, want ErrNoWriter", err)
	}
	if err := lib.DeleteTrack(t.Context(), "x"); !errors.Is(err, library.ErrNoWriter) {
		t.Errorf("DeleteTrack() error = %v, want ErrNoWriter", err)
	}
	if err := lib.PutArtist(t.Context(), &storage.Artist{ID: "a"}); !errors.Is(err, library.ErrNoWriter) {
		t.Errorf("PutArtist() error = %v, want ErrNoWriter", err)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	fs := fsbackend.New(t.TempDir(), fsbackend.Options{Encoding: wav.Float32})
	lib := build(t, library.NewBuilder().Add("fs", fs))

	spec := audio.SignalSpec{Rate: 44100, Channels: 1}
	sine := audiotest.Sine(44100, 44100, 440, 0.25)
	src, err := audiotest.FloatSession(spec, sine)
	if err != nil {
		t.Fatal(err)
	}

	id, err := lib.CreateAudio(ctx, src, "A440")
	if err != nil {
		t.Fatalf("CreateAudio() error = %v", err)
	}

	tr, err := lib.GetTrack(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Title != "A440" || tr.Duration != time.Second {
		t.Errorf("recorded track = %+v", tr)
	}

	data, err := lib.GetTrackSource(ctx, id)
	if err != nil {
		t.Fatalf("GetTrackSource() error = %v", err)
	}
	s, err := crushr.Open(bytes.NewReader(data), "", codec.DecoderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if s.SignalSpec() != spec {
		t.Errorf("SignalSpec() = %v, want %v", s.SignalSpec(), spec)
	}
	got, err := s.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(sine) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(sine))
	}
	for i := range sine {
		if math.Abs(got[i]-sine[i]) > 1e-5 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], sine[i])
		}
	}

	if err := lib.DeleteTrack(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.GetTrackSource(ctx, id); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("GetTrackSource() after delete error = %v", err)
	}
}

func TestCreateAudio_RecordFailureLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	fs := fsbackend.New(t.TempDir(), fsbackend.Options{Encoding: wav.Float32})
	mem := newMem("mem")
	mem.failPut = errors.New("disk full")
	lib := build(t, library.NewBuilder().
		Add("fs", fs).
		Add("mem", mem).
		BlobWriter("fs").
		StructuredWriter("mem").
		WithLogger(logger))

	src, err := audiotest.FloatSession(audio.SignalSpec{Rate: 8000, Channels: 1}, audiotest.Sine(8000, 800, 440, 0.25))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.CreateAudio(t.Context(), src, "lost"); err == nil {
		t.Fatal("CreateAudio() error = nil")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line %q: %v", buf.String(), err)
	}
	want := map[string]string{
		logging.FieldComponent:   "library",
		logging.FieldBlobBackend: "fs",
		logging.FieldBackend:     "mem",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
	if id, _ := entry[logging.FieldTrackID].(string); id == "" {
		t.Errorf("%s missing from %v", logging.FieldTrackID, entry)
	}
	if entry["error"] != "disk full" {
		t.Errorf("error = %v", entry["error"])
	}
}

func TestOpenAudioAndCoverArt(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	fs := fsbackend.New(t.TempDir(), fsbackend.Options{})
	sine := sinebackend.New(sinebackend.Options{TrackID: "tone", Frequency: 1000, Amplitude: 0.5, Duration: 100 * time.Millisecond})
	lib := build(t, library.NewBuilder().Add("fs", fs).Add("sine", sine))

	s, err := lib.OpenAudio(ctx, "tone")
	if err != nil {
		t.Fatalf("OpenAudio() error = %v", err)
	}
	got, err := s.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4410 {
		t.Errorf("decoded %d samples, want 4410", len(got))
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if _, err := lib.OpenAudio(ctx, "nothing"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("OpenAudio(missing) error = %v", err)
	}

	if err := lib.CreateCoverArt(ctx, "tone", []byte("art")); err != nil {
		t.Fatal(err)
	}
	art, err := lib.GetCoverArt(ctx, "tone")
	if err != nil || string(art) != "art" {
		t.Errorf("GetCoverArt() = %q, %v", art, err)
	}
	if _, err := lib.GetCoverArt(ctx, "none"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("GetCoverArt(missing) error = %v", err)
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	m := newMem("m", track("x", "X"))
	lib, err := library.NewBuilder().Add("m", m).Build(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.GetTrack(t.Context(), "x"); err != nil {
		t.Fatal(err)
	}

	if err := lib.Close(); err != nil {
		t.Fatal(err)
	}
	if !m.closed.Load() {
		t.Error("backend not closed")
	}
	if lib.CacheLen() != 0 {
		t.Error("cache not dropped")
	}
	if err := lib.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := lib.AddBackend(t.Context(), "late", newMem("late")); !errors.Is(err, library.ErrClosed) {
		t.Errorf("AddBackend() after Close error = %v, want ErrClosed", err)
	}
}
