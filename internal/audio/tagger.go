package audio

import (
	"github.com/bogem/id3v2"
	"github.com/handiism/ucdump/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the catalog.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Decoded cache files usually carry an ID3 header of their own. TagConfig
// decides which of those frames are replaced with catalog metadata.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Title:       TagModify,
//	    Artist:      TagModify,
//	    AlbumArtist: TagDoNotModify, // Keep whatever the cache file had
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are modified.
	ModifyTags bool

	// Title controls the TIT2 (Title) frame.
	Title TagEditAction

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame. It is set to
	// the song artist.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// DiscNumber controls the TPOS (Part of a set) frame.
	DiscNumber TagEditAction
}

// DefaultTagConfig returns the default tag configuration, which writes
// every supported frame from catalog data.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Title:       TagModify,
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		TrackNumber: TagModify,
		DiscNumber:  TagModify,
	}
}

// Tagger writes ID3 tags to MP3 files.
//
// Tagger uses the id3v2 library to set:
//   - Title, Artist, Album Artist, Album
//   - Track Number, Disc Number
//   - Cover Art (attached picture, PNG)
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	if err := tagger.SaveTags(path, song, pngCover); err != nil {
//	    logger.Warn("tagging failed", "path", path, "error", err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags for song into the MP3 file at path.
//
// This method:
//  1. Opens the file, parses any existing tag and upgrades it to ID3v2.4
//  2. Updates text frames based on TagConfig settings
//  3. Replaces all attached pictures with cover if cover is non-nil
//  4. Saves the modified tag to the file
//
// cover must already be PNG-encoded. Nil cover leaves pictures untouched.
func (t *Tagger) SaveTags(path string, song model.Song, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	// Decoded cache files often carry v2.3 tags, whose text frames cannot
	// hold non-Latin-1 text. v2.4 frames are UTF-8.
	tag.SetVersion(4)

	if t.config.ModifyTags {
		t.updateStringTags(tag, song)
	}

	if cover != nil {
		t.updateArtwork(tag, cover)
	}

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, song model.Song) {
	// Title (TIT2)
	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(song.Title)
	}

	// Artist (TPE1)
	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(song.Artist)
	}

	// Album Artist (TPE2)
	switch t.config.AlbumArtist {
	case TagEmpty:
		tag.DeleteFrames("TPE2")
	case TagModify:
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, song.Artist)
	}

	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(song.Album)
	}

	// Track Number (TRCK)
	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, song.TrackNumber)
	}

	// Disc Number (TPOS)
	switch t.config.DiscNumber {
	case TagEmpty:
		tag.DeleteFrames("TPOS")
	case TagModify:
		tag.AddTextFrame("TPOS", id3v2.EncodingUTF8, song.DiscNumber)
	}
}

// updateArtwork embeds cover art as the only attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, cover []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/png",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     cover,
	}
	tag.AddAttachedPicture(pic)
}
