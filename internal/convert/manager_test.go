package convert

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/handiism/ucdump/internal/cache"
	"github.com/handiism/ucdump/internal/config"
	"github.com/handiism/ucdump/internal/model"
)

// audioBytes is a plain MP3 stream: an MPEG-1 Layer III header and silence.
var audioBytes = append([]byte{0xff, 0xfb, 0x90, 0x00}, make([]byte, 413)...)

func pngCover(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// writeCacheFiles stores audioBytes encoded as cache files named after ids.
func writeCacheFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), cache.Decode(audioBytes), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// catalog fakes the detail API. Songs are keyed by identifier; unknown
// identifiers get a 500.
type catalog struct {
	srv      *httptest.Server
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func newCatalog(t *testing.T, cover []byte, songs map[string]string, delay time.Duration) *catalog {
	t.Helper()
	c := &catalog{delay: delay}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		n := c.inFlight.Add(1)
		defer c.inFlight.Add(-1)
		for {
			peak := c.peak.Load()
			if n <= peak || c.peak.CompareAndSwap(peak, n) {
				break
			}
		}
		if c.delay > 0 {
			time.Sleep(c.delay)
		}

		body, ok := songs[r.URL.Query().Get("id")]
		if !ok {
			http.Error(w, "not found", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(strings.ReplaceAll(body, "$BASE", "http://"+r.Host)))
	})
	mux.HandleFunc("/cover.png", func(w http.ResponseWriter, r *http.Request) { w.Write(cover) })
	mux.HandleFunc("/garbage.jpg", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<html>nope</html>")) })
	c.srv = httptest.NewServer(mux)
	t.Cleanup(c.srv.Close)
	return c
}

func song(name, artist, pic string) string {
	return `{"code":200,"songs":[{"name":"` + name + `","ar":[{"name":"` + artist + `"}],"al":{"name":"Album","picUrl":"` + pic + `"},"no":1,"cd":"1"}]}`
}

func testSettings(t *testing.T, c *catalog) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.CacheDir = t.TempDir()
	s.OutputDir = t.TempDir()
	s.APIBaseURL = c.srv.URL + "/api/"
	s.RequestTimeout = 5
	return s
}

func newTestManager(t *testing.T, s *config.Settings) (*Manager, *[]ProgressEvent) {
	t.Helper()
	var mu sync.Mutex
	events := &[]ProgressEvent{}
	m, err := NewManager(s, nil, func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		*events = append(*events, e)
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, events
}

func byIdentifier(outcomes []model.Outcome) map[string]model.Outcome {
	m := make(map[string]model.Outcome, len(outcomes))
	for _, o := range outcomes {
		m[o.Entry.Identifier] = o
	}
	return m
}

func TestManager_FailureIsolation(t *testing.T) {
	c := newCatalog(t, pngCover(t), map[string]string{
		"1": song("First", "Artist", "$BASE/cover.png"),
		"3": song("Third", "Artist", "$BASE/garbage.jpg"),
		"4": song("Fourth", "Artist", ""),
	}, 0)
	s := testSettings(t, c)
	writeCacheFiles(t, s.CacheDir, "1-320-a.uc", "2-320-b.uc", "3-128-c.uc", "4-320-d.uc", "readme.txt", "x-1.uc")

	m, _ := newTestManager(t, s)
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := len(m.Entries()); got != 4 {
		t.Fatalf("Entries = %d, want 4", got)
	}

	outcomes, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := byIdentifier(outcomes)
	want := map[string]model.Status{
		"1": model.StatusDone,
		"2": model.StatusDoneFallback,
		"3": model.StatusDoneTagFailure,
		"4": model.StatusDone,
	}
	for id, status := range want {
		if got[id].Status() != status {
			t.Errorf("entry %s status = %s, want %s (err=%v tagErr=%v)", id, got[id].Status(), status, got[id].Err, got[id].TagErr)
		}
	}

	files, _ := filepath.Glob(filepath.Join(s.OutputDir, "*.mp3"))
	if len(files) != 4 {
		t.Errorf("got %d mp3 files, want 4: %v", len(files), files)
	}
	if _, err := os.Stat(filepath.Join(s.OutputDir, "Unknown - 2.mp3")); err != nil {
		t.Errorf("fallback file missing: %v", err)
	}

	_, _, done, total := m.GetProgress()
	if done != 4 || total != 4 {
		t.Errorf("GetProgress files = %d/%d, want 4/4", done, total)
	}
}

func TestManager_EndToEnd(t *testing.T) {
	cover := pngCover(t)
	c := newCatalog(t, cover, map[string]string{
		"1347203552": song("Title", "Artist", "$BASE/cover.png"),
	}, 0)
	s := testSettings(t, c)
	writeCacheFiles(t, s.CacheDir, "1347203552-320-0aa1.uc")

	m, events := newTestManager(t, s)
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	outcomes, err := m.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 1 || outcomes[0].Status() != model.StatusDone {
		t.Fatalf("outcomes = %+v", outcomes)
	}

	path := filepath.Join(s.OutputDir, "Artist - Title.mp3")
	if outcomes[0].OutputPath != path {
		t.Errorf("OutputPath = %q, want %q", outcomes[0].OutputPath, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(data, audioBytes) {
		t.Error("decoded audio not found in output")
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()
	if tag.Title() != "Title" || tag.Artist() != "Artist" || tag.Album() != "Album" {
		t.Errorf("tags = %q/%q/%q", tag.Title(), tag.Artist(), tag.Album())
	}
	if pics := tag.GetFrames(tag.CommonID("Attached picture")); len(pics) != 1 {
		t.Errorf("got %d pictures, want 1", len(pics))
	}

	var sawStages int
	for _, e := range *events {
		if e.Level == LevelVerbose && strings.HasPrefix(e.Message, "[") {
			sawStages++
		}
	}
	// decoding, fetching-metadata, writing, tagging, done
	if sawStages != 5 {
		t.Errorf("saw %d stage events, want 5", sawStages)
	}
}

func TestManager_BoundedConcurrency(t *testing.T) {
	songs := map[string]string{}
	var names []string
	for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		songs[id] = song("Song "+id, "Artist", "")
		names = append(names, id+".uc")
	}
	c := newCatalog(t, nil, songs, 20*time.Millisecond)

	s := testSettings(t, c)
	s.MaxConcurrentConversions = 2
	writeCacheFiles(t, s.CacheDir, names...)

	m, _ := newTestManager(t, s)
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if peak := c.peak.Load(); peak > 2 {
		t.Errorf("peak concurrent lookups = %d, want <= 2", peak)
	}
}

func TestManager_DecodeFailure(t *testing.T) {
	c := newCatalog(t, nil, map[string]string{"1": song("One", "A", ""), "2": song("Two", "A", "")}, 0)
	s := testSettings(t, c)
	writeCacheFiles(t, s.CacheDir, "1.uc")

	m, _ := newTestManager(t, s)
	entries := []model.CacheEntry{
		{Identifier: "1", SourcePath: filepath.Join(s.CacheDir, "1.uc")},
		{Identifier: "2", SourcePath: filepath.Join(s.CacheDir, "missing.uc")},
	}
	outcomes, err := m.ConvertEntries(context.Background(), entries)
	if err != nil {
		t.Fatal(err)
	}

	if outcomes[0].Status() != model.StatusDone {
		t.Errorf("entry 1 status = %s, want done", outcomes[0].Status())
	}
	if outcomes[1].Status() != model.StatusFailed || outcomes[1].Stage != model.StageDecoding {
		t.Errorf("entry 2 = %s at %s, want failed at decoding", outcomes[1].Status(), outcomes[1].Stage)
	}
	if outcomes[1].Written() {
		t.Error("failed entry should not report a written file")
	}
}

func TestManager_Playlist(t *testing.T) {
	c := newCatalog(t, nil, map[string]string{"1": song("One", "A", ""), "2": song("Two", "A", "")}, 0)
	s := testSettings(t, c)
	s.CreatePlaylist = true
	s.PlaylistFormat = "m3u"
	s.M3UExtended = false
	writeCacheFiles(t, s.CacheDir, "1.uc", "2.uc")

	m, _ := newTestManager(t, s)
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(s.OutputDir, "ucdump.m3u"))
	if err != nil {
		t.Fatalf("playlist missing: %v", err)
	}
	if string(content) != "A - One.mp3\nA - Two.mp3\n" {
		t.Errorf("playlist = %q", content)
	}
}

func TestManager_Cancelled(t *testing.T) {
	c := newCatalog(t, nil, map[string]string{}, 0)
	s := testSettings(t, c)
	writeCacheFiles(t, s.CacheDir, "1.uc")

	m, _ := newTestManager(t, s)
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestNewManager_InvalidSettings(t *testing.T) {
	s := config.DefaultSettings()
	s.DuplicatePolicy = "newest"
	if _, err := NewManager(s, nil, nil); err == nil {
		t.Error("expected error for invalid duplicate policy")
	}
}
