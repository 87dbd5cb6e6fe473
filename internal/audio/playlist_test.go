package audio

import (
	"errors"
	"strings"
	"testing"

	"github.com/handiism/ucdump/internal/model"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist("ucdump", createTestOutcomes())

	if !strings.Contains(content, "Artist - track1.mp3") {
		t.Error("M3U should contain track filename")
	}
	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not contain #EXTM3U")
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, true)

	content := creator.CreatePlaylist("ucdump", createTestOutcomes())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:-1,Artist - track1") {
		t.Error("Extended M3U should contain #EXTINF")
	}
}

func TestPlaylistCreator_SkipsFailed(t *testing.T) {
	creator := NewPlaylistCreator(FormatM3U, false)

	content := creator.CreatePlaylist("ucdump", createTestOutcomes())

	if strings.Contains(content, "broken") {
		t.Error("failed outcomes should not be listed")
	}
	if got := strings.Count(content, "\n"); got != 2 {
		t.Errorf("got %d lines, want 2", got)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	creator := NewPlaylistCreator(FormatPLS, false)

	content := creator.CreatePlaylist("ucdump", createTestOutcomes())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	if !strings.Contains(content, "File1=") {
		t.Error("PLS should contain File1=")
	}
	if !strings.Contains(content, "NumberOfEntries=2") {
		t.Error("PLS should contain NumberOfEntries=2")
	}
}

func TestPlaylistCreator_WPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatWPL, false)

	content := creator.CreatePlaylist("ucdump", createTestOutcomes())

	if !strings.Contains(content, "<?wpl") {
		t.Error("WPL should contain XML declaration")
	}
	if !strings.Contains(content, "<smil>") {
		t.Error("WPL should contain smil element")
	}
	if !strings.Contains(content, "<media src=") {
		t.Error("WPL should contain media elements")
	}
}

func TestPlaylistCreator_ZPL(t *testing.T) {
	creator := NewPlaylistCreator(FormatZPL, false)

	content := creator.CreatePlaylist("ucdump", createTestOutcomes())

	if !strings.Contains(content, "<?zpl") {
		t.Error("ZPL should contain XML declaration")
	}
	if !strings.Contains(content, `albumTitle="Album"`) {
		t.Error("ZPL should contain albumTitle attribute")
	}
}

func TestPlaylistCreator_XMLEscape(t *testing.T) {
	outcomes := []model.Outcome{{
		OutputPath: "/music/Artist & Co - Track & \"Quote\".mp3",
		Song:       model.Song{Title: "Track & \"Quote\"", Artist: "Artist & Co", Album: "Album <Special>"},
	}}

	content := NewPlaylistCreator(FormatZPL, false).CreatePlaylist("Mix <1>", outcomes)

	if strings.Contains(content, "& ") {
		t.Error("ZPL should escape & as &amp;")
	}
	if strings.Contains(content, "<Special>") || strings.Contains(content, "<1>") {
		t.Error("ZPL should escape < and >")
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    PlaylistFormat
		wantExt string
		wantErr bool
	}{
		{"", FormatM3U, ".m3u", false},
		{"m3u", FormatM3U, ".m3u", false},
		{"PLS", FormatPLS, ".pls", false},
		{" wpl ", FormatWPL, ".wpl", false},
		{"zpl", FormatZPL, ".zpl", false},
		{"xspf", FormatM3U, ".m3u", true},
	}

	for _, tt := range tests {
		got, err := ParsePlaylistFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePlaylistFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want || got.Extension() != tt.wantExt {
			t.Errorf("ParsePlaylistFormat(%q) = %v (%s), want %v (%s)", tt.input, got, got.Extension(), tt.want, tt.wantExt)
		}
	}
}

func createTestOutcomes() []model.Outcome {
	song1 := model.Song{Title: "track1", Artist: "Artist", Album: "Album"}
	song2 := model.Song{Title: "track2", Artist: "Artist", Album: "Album"}

	return []model.Outcome{
		{Entry: model.CacheEntry{Identifier: "1"}, OutputPath: "/music/Artist - track1.mp3", Song: song1, Stage: model.StageDone},
		{Entry: model.CacheEntry{Identifier: "2"}, Song: model.Song{Title: "broken"}, Err: errors.New("disk full")},
		{Entry: model.CacheEntry{Identifier: "3"}, OutputPath: "/music/Artist - track2.mp3", Song: song2, Stage: model.StageDone},
	}
}
