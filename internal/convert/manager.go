package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/handiism/ucdump/internal/audio"
	"github.com/handiism/ucdump/internal/cache"
	"github.com/handiism/ucdump/internal/config"
	"github.com/handiism/ucdump/internal/http"
	ioutils "github.com/handiism/ucdump/internal/io"
	"github.com/handiism/ucdump/internal/model"
	"github.com/handiism/ucdump/internal/netease"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a conversion progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates the conversion of cache entries into tagged MP3 files.
type Manager struct {
	settings *config.Settings
	locator  *cache.Locator
	catalog  *netease.Client
	writer   *audio.Writer
	playlist *audio.PlaylistCreator
	logger   *slog.Logger

	entries        []model.CacheEntry
	totalBytes     int64
	processedBytes int64
	totalFiles     int32
	convertedFiles int32
	failedFiles    int32

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new conversion Manager.
//
// settings should have been normalized and validated. A nil logger discards
// output and a nil onProgress disables progress events. onProgress is called
// from worker goroutines and must be safe for concurrent use.
func NewManager(settings *config.Settings, logger *slog.Logger, onProgress func(ProgressEvent)) (*Manager, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	policy, err := cache.ParseDuplicatePolicy(settings.DuplicatePolicy)
	if err != nil {
		return nil, err
	}
	playlistFormat, err := audio.ParsePlaylistFormat(settings.PlaylistFormat)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(settings.RequestTimeoutDuration(), settings.UserAgent)
	catalog := netease.NewClient(httpClient, netease.Options{
		BaseURL:       settings.APIBaseURL,
		Attempts:      settings.MetadataMaxRetries + 1,
		RetryCooldown: settings.RetryCooldownDuration(),
		RetryExponent: settings.RetryExponent,
	}, logger)

	tags := audio.DefaultTagConfig()
	tags.ModifyTags = settings.ModifyTags
	writer := audio.NewWriter(audio.WriterOptions{
		Tags:           tags,
		EmbedArtwork:   settings.SaveCoverArtInTags,
		ResizeArtwork:  settings.CoverArtInTagsResize,
		ArtworkMaxSize: settings.CoverArtInTagsMaxSize,
	}, logger)

	return &Manager{
		settings:   settings,
		locator:    cache.NewLocator(settings.CacheExtension, policy, logger),
		catalog:    catalog,
		writer:     writer,
		playlist:   audio.NewPlaylistCreator(playlistFormat, settings.M3UExtended),
		logger:     logger,
		onProgress: onProgress,
	}, nil
}

// Locator returns the cache file matcher used by the Manager.
func (m *Manager) Locator() *cache.Locator {
	return m.locator
}

// Initialize scans the cache directory for entries to convert.
func (m *Manager) Initialize(ctx context.Context) error {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Scanning %s", m.settings.CacheDir), Level: LevelVerbose})

	index, err := m.locator.Scan(ctx, m.settings.CacheDir)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error scanning %s: %v", m.settings.CacheDir, err), Level: LevelError})
		return err
	}

	entries := cache.Entries(index)
	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d cache files", len(entries)), Level: LevelInfo})
	return nil
}

// Entries returns the entries found by Initialize, ordered by identifier.
func (m *Manager) Entries() []model.CacheEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.CacheEntry(nil), m.entries...)
}

// Run converts every initialized entry and, if enabled, writes a playlist
// of the converted files.
//
// Per-entry failures are reported in the returned outcomes and never stop
// the run. The error is non-nil only when ctx is cancelled.
func (m *Manager) Run(ctx context.Context) ([]model.Outcome, error) {
	outcomes, err := m.ConvertEntries(ctx, m.Entries())
	if err != nil {
		return outcomes, err
	}

	if m.settings.CreatePlaylist {
		m.writePlaylist(ctx, outcomes)
	}

	converted := atomic.LoadInt32(&m.convertedFiles)
	failed := atomic.LoadInt32(&m.failedFiles)
	if failed == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Successfully converted %d files", converted), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Converted %d files, %d failed", converted, failed), Level: LevelWarning})
	}
	return outcomes, nil
}

// ConvertEntries converts entries on a pool of at most
// MaxConcurrentConversions goroutines (unbounded when zero).
//
// Outcomes are returned in the order of entries.
func (m *Manager) ConvertEntries(ctx context.Context, entries []model.CacheEntry) ([]model.Outcome, error) {
	m.addTotals(entries)

	outcomes := make([]model.Outcome, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	if limit := m.settings.MaxConcurrentConversions; limit > 0 {
		g.SetLimit(limit)
	}

	for i, entry := range entries {
		g.Go(func() error {
			outcomes[i] = m.convertEntry(gctx, entry)
			return nil // Continue with other entries
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}

// GetProgress returns current conversion progress. Failed entries count
// towards filesDone.
func (m *Manager) GetProgress() (processed, total int64, filesDone, filesTotal int32) {
	return atomic.LoadInt64(&m.processedBytes), atomic.LoadInt64(&m.totalBytes),
		atomic.LoadInt32(&m.convertedFiles) + atomic.LoadInt32(&m.failedFiles),
		atomic.LoadInt32(&m.totalFiles)
}

func (m *Manager) addTotals(entries []model.CacheEntry) {
	var size int64
	for _, entry := range entries {
		if info, err := os.Stat(entry.SourcePath); err == nil {
			size += info.Size()
		}
	}
	atomic.AddInt64(&m.totalBytes, size)
	atomic.AddInt32(&m.totalFiles, int32(len(entries)))
}

// convertEntry runs the per-entry pipeline: decode and metadata lookup in
// parallel, then write, then tag.
func (m *Manager) convertEntry(ctx context.Context, entry model.CacheEntry) model.Outcome {
	out := model.Outcome{Entry: entry, Stage: model.StageDiscovered}
	m.stage(&out, model.StageDecoding)

	var (
		data   []byte
		lookup netease.Lookup
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		data, err = cache.ReadFile(ctx, entry.SourcePath)
		return err
	})
	g.Go(func() error {
		m.stageEvent(entry, model.StageFetchingMetadata)
		lookup = m.catalog.Lookup(ctx, entry.Identifier)
		return nil
	})
	if err := g.Wait(); err != nil {
		return m.fail(out, fmt.Errorf("decode: %w", err))
	}

	out.Song = lookup.Song
	out.Fallback = lookup.Fallback
	if lookup.Fallback {
		m.progress(ProgressEvent{Message: fmt.Sprintf("No song info for %s, using fallback metadata", entry), Level: LevelWarning})
	}

	m.stage(&out, model.StageWriting)
	res, err := m.writer.Write(ctx, data, m.settings.OutputDir, out.Song)
	if err != nil {
		return m.fail(out, err)
	}
	out.OutputPath = res.Path
	out.Size = res.Size

	// Writer tags immediately after writing.
	m.stage(&out, model.StageTagging)
	out.TagErr = res.TagErr
	m.stage(&out, model.StageDone)

	atomic.AddInt64(&m.processedBytes, res.Size)
	atomic.AddInt32(&m.convertedFiles, 1)

	name := filepath.Base(res.Path)
	switch out.Status() {
	case model.StatusDoneTagFailure:
		m.progress(ProgressEvent{Message: fmt.Sprintf("Converted %s without complete tags: %v", name, res.TagErr), Level: LevelWarning})
	default:
		m.progress(ProgressEvent{Message: fmt.Sprintf("Converted: %s", name), Level: LevelSuccess})
	}
	return out
}

func (m *Manager) stage(out *model.Outcome, stage model.Stage) {
	out.Stage = stage
	m.stageEvent(out.Entry, stage)
}

func (m *Manager) stageEvent(entry model.CacheEntry, stage model.Stage) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("[%s] %s", stage, entry), Level: LevelVerbose})
}

func (m *Manager) fail(out model.Outcome, err error) model.Outcome {
	out.Err = err
	atomic.AddInt32(&m.failedFiles, 1)
	m.logger.Error("conversion failed",
		"identifier", out.Entry.Identifier,
		"source", out.Entry.SourcePath,
		"stage", out.Stage.String(),
		"error", err,
	)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Error converting %s: %v", out.Entry, err), Level: LevelError})
	return out
}

func (m *Manager) writePlaylist(ctx context.Context, outcomes []model.Outcome) {
	content := m.playlist.CreatePlaylist(m.settings.PlaylistFileName, outcomes)
	path := filepath.Join(m.settings.OutputDir, m.settings.PlaylistFileName+m.playlistExtension())

	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.logger.Warn("failed to write playlist", "path", path, "error", err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist %s", path), Level: LevelSuccess})
}

func (m *Manager) playlistExtension() string {
	format, _ := audio.ParsePlaylistFormat(m.settings.PlaylistFormat)
	return format.Extension()
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
