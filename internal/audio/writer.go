package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	ioutils "github.com/handiism/ucdump/internal/io"
	"github.com/handiism/ucdump/internal/model"
)

// WriterOptions controls how cover art is embedded.
type WriterOptions struct {
	// Tags configures which text frames are written. Nil selects
	// DefaultTagConfig().
	Tags *TagConfig

	// EmbedArtwork enables the APIC frame.
	EmbedArtwork bool

	// ResizeArtwork shrinks artwork to fit ArtworkMaxSize before embedding.
	ResizeArtwork bool

	// ArtworkMaxSize is the maximum width and height in pixels.
	ArtworkMaxSize int
}

// DefaultWriterOptions embeds artwork at its original size.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		Tags:           DefaultTagConfig(),
		EmbedArtwork:   true,
		ArtworkMaxSize: 1000,
	}
}

// Result describes a written output file.
type Result struct {
	// Path is the absolute location of the MP3 file.
	Path string

	// Size is the number of audio bytes written.
	Size int64

	// TagErr is set when the audio was written but tagging failed. The
	// file is kept in that case.
	TagErr error
}

// Writer persists decoded audio and tags it with song metadata.
//
// Example:
//
//	w := NewWriter(DefaultWriterOptions(), logger)
//	res, err := w.Write(ctx, decoded, "/music", song)
//	if err != nil {
//	    return err // nothing usable on disk
//	}
//	if res.TagErr != nil {
//	    // res.Path exists but has incomplete tags
//	}
type Writer struct {
	opts   WriterOptions
	tagger *Tagger
	images *ioutils.ImageService
	logger *slog.Logger
}

// NewWriter creates a Writer. A nil logger discards output.
func NewWriter(opts WriterOptions, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{
		opts:   opts,
		tagger: NewTagger(opts.Tags),
		images: ioutils.NewImageService(),
		logger: logger,
	}
}

// FileName returns the output file name for song: "<artist> - <title>.mp3"
// with both parts sanitized.
func FileName(song model.Song) string {
	return ioutils.SanitizeName(song.Artist) + " - " + ioutils.SanitizeName(song.Title) + ".mp3"
}

// Write stores data under outDir and tags it.
//
// The returned error is non-nil only if the audio bytes could not be
// written. Tagging problems are reported in Result.TagErr; the text frames
// are still saved when only the artwork could not be converted.
func (w *Writer) Write(ctx context.Context, data []byte, outDir string, song model.Song) (Result, error) {
	path, err := filepath.Abs(filepath.Join(outDir, FileName(song)))
	if err != nil {
		return Result{}, err
	}

	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", path, err)
	}

	res := Result{Path: path, Size: int64(len(data))}
	if res.TagErr = w.tag(ctx, path, song); res.TagErr != nil {
		w.logger.Warn("failed to write tags",
			"path", path,
			"title", song.Title,
			"error", res.TagErr,
		)
	}
	return res, nil
}

func (w *Writer) tag(ctx context.Context, path string, song model.Song) error {
	var cover []byte
	var coverErr error
	if w.opts.EmbedArtwork && song.HasArtwork() {
		cover, coverErr = w.cover(ctx, song.Artwork)
		if coverErr != nil {
			coverErr = fmt.Errorf("convert artwork: %w", coverErr)
		}
	}

	if err := w.tagger.SaveTags(path, song, cover); err != nil {
		return errors.Join(coverErr, fmt.Errorf("save tags: %w", err))
	}
	return coverErr
}

func (w *Writer) cover(ctx context.Context, artwork []byte) ([]byte, error) {
	if w.opts.ResizeArtwork {
		return w.images.ResizeImage(ctx, artwork, w.opts.ArtworkMaxSize, w.opts.ArtworkMaxSize)
	}
	return w.images.ConvertToPNG(ctx, artwork)
}
