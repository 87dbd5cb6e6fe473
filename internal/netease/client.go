package netease

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"time"

	uchttp "github.com/handiism/ucdump/internal/http"
	"github.com/handiism/ucdump/internal/model"
	"github.com/handiism/ucdump/internal/netease/dto"
)

// DefaultBaseURL is the song detail endpoint used when none is configured.
const DefaultBaseURL = "https://api.imjad.cn/cloudmusic/"

// Lookup is the result of a metadata request.
//
// Lookup always carries a usable Song. When the catalog could not be reached
// or answered with something unusable, Song is model.FallbackSong, Fallback
// is true and Cause explains why. Callers never receive an error.
type Lookup struct {
	Song     model.Song
	Fallback bool
	Cause    error
}

// Options configures a Client.
type Options struct {
	// BaseURL is the detail endpoint. Empty selects DefaultBaseURL.
	BaseURL string

	// Attempts is how many times each request is tried. Values below 1
	// mean a single attempt.
	Attempts int

	// RetryCooldown is the wait before the first retry.
	RetryCooldown time.Duration

	// RetryExponent multiplies the cooldown after every failed attempt.
	RetryExponent float64
}

// Client fetches song metadata and cover art from the catalog API.
//
// Example usage:
//
//	client := NewClient(uchttp.NewClient(30*time.Second, ""), Options{}, logger)
//
//	lookup := client.Lookup(ctx, "1347203552")
//	if lookup.Fallback {
//	    log.Printf("using placeholder metadata: %v", lookup.Cause)
//	}
//	fmt.Println(lookup.Song.Artist, "-", lookup.Song.Title)
type Client struct {
	http   *uchttp.Client
	opts   Options
	logger *slog.Logger
}

// NewClient creates a new catalog Client. A nil logger discards output.
func NewClient(httpClient *uchttp.Client, opts Options, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.RetryExponent <= 0 {
		opts.RetryExponent = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{http: httpClient, opts: opts, logger: logger}
}

// DetailURL returns the song detail URL for identifier.
//
// Example:
//
//	client.DetailURL("1347203552") // "https://api.imjad.cn/cloudmusic/?type=detail&id=1347203552"
func (c *Client) DetailURL(identifier string) string {
	sep := "?"
	if strings.Contains(c.opts.BaseURL, "?") {
		sep = "&"
	}
	return c.opts.BaseURL + sep + "type=detail&id=" + url.QueryEscape(identifier)
}

// Lookup fetches metadata and artwork for identifier.
//
// Any failure (transport error, non-2xx status, malformed JSON, a missing or
// mistyped field, or a failed artwork download) produces a fallback Lookup.
func (c *Client) Lookup(ctx context.Context, identifier string) Lookup {
	song, err := c.fetch(ctx, identifier)
	if err != nil {
		c.logger.Warn("song info not found, using fallback metadata",
			"identifier", identifier,
			"url", c.DetailURL(identifier),
			"error", err,
		)
		return Lookup{Song: model.FallbackSong(identifier), Fallback: true, Cause: err}
	}
	return Lookup{Song: song}
}

func (c *Client) fetch(ctx context.Context, identifier string) (model.Song, error) {
	detailURL := c.DetailURL(identifier)
	c.logger.Info("looking up song info", "identifier", identifier, "url", detailURL)

	var detail dto.DetailResponse
	err := c.withRetry(ctx, func() error {
		detail = dto.DetailResponse{}
		return c.http.GetJSON(ctx, detailURL, &detail)
	})
	if err != nil {
		return model.Song{}, err
	}

	song, picURL, err := detail.ToSong()
	if err != nil {
		return model.Song{}, err
	}

	if picURL != "" {
		var artwork []byte
		err := c.withRetry(ctx, func() error {
			var err error
			artwork, err = c.http.Get(ctx, picURL)
			return err
		})
		if err != nil {
			return model.Song{}, fmt.Errorf("fetch artwork: %w", err)
		}
		song.Artwork = artwork
	}

	c.logger.Debug("found song info",
		"identifier", identifier,
		"title", song.Title,
		"artist", song.Artist,
		"album", song.Album,
		"track", song.TrackNumber,
		"disc", song.DiscNumber,
		"artwork_bytes", len(song.Artwork),
	)
	return song, nil
}

// withRetry runs fn up to opts.Attempts times with exponential backoff.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for tries := 0; tries < c.opts.Attempts; tries++ {
		if err = fn(); err == nil {
			return nil
		}
		if tries+1 < c.opts.Attempts {
			c.waitForRetry(ctx, tries)
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (c *Client) waitForRetry(ctx context.Context, tries int) {
	cooldown := float64(c.opts.RetryCooldown) * math.Pow(c.opts.RetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown)):
	}
}
