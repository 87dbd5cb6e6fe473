package model

import (
	"errors"
	"testing"
)

func TestFallbackSong(t *testing.T) {
	got := FallbackSong("1347203552")

	want := Song{
		Title:       "1347203552",
		Artist:      "Unknown",
		Album:       "Unknown",
		TrackNumber: "0",
		DiscNumber:  "0",
	}
	if got.Title != want.Title || got.Artist != want.Artist || got.Album != want.Album ||
		got.TrackNumber != want.TrackNumber || got.DiscNumber != want.DiscNumber {
		t.Errorf("FallbackSong() = %+v, want %+v", got, want)
	}
	if got.Artwork != nil {
		t.Error("FallbackSong() should not carry artwork")
	}
	if got.HasArtwork() {
		t.Error("HasArtwork() should be false for fallback song")
	}
}

func TestOutcome_Status(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    Status
	}{
		{"clean", Outcome{Stage: StageDone, OutputPath: "/out/a.mp3"}, StatusDone},
		{"fallback", Outcome{Stage: StageDone, OutputPath: "/out/a.mp3", Fallback: true}, StatusDoneFallback},
		{"tag failure", Outcome{Stage: StageDone, OutputPath: "/out/a.mp3", TagErr: errors.New("bad image")}, StatusDoneTagFailure},
		{"tag failure wins over fallback", Outcome{Stage: StageDone, Fallback: true, TagErr: errors.New("x")}, StatusDoneTagFailure},
		{"failed", Outcome{Stage: StageWriting, Err: errors.New("disk full")}, StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutcome_Written(t *testing.T) {
	if (Outcome{OutputPath: "/out/a.mp3"}).Written() != true {
		t.Error("Written() should be true when an output path is set")
	}
	if (Outcome{OutputPath: "/out/a.mp3", Err: errors.New("x")}).Written() {
		t.Error("Written() should be false for failed outcomes")
	}
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageDiscovered, "discovered"},
		{StageDecoding, "decoding"},
		{StageFetchingMetadata, "fetching-metadata"},
		{StageWriting, "writing"},
		{StageTagging, "tagging"},
		{StageDone, "done"},
		{Stage(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.stage.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheEntry_String(t *testing.T) {
	e := CacheEntry{Identifier: "42", SourcePath: "/cache/42-320-ab.uc"}
	if got := e.String(); got != "42 (42-320-ab.uc)" {
		t.Errorf("String() = %q", got)
	}
}
