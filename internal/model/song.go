package model

// Placeholder values used when catalog metadata is unavailable.
const (
	UnknownArtist = "Unknown"
	UnknownAlbum  = "Unknown"
	UnknownNumber = "0"
)

// Song holds the metadata for one track as returned by the catalog.
//
// Song contains everything needed to name and tag an output file:
//   - Title and Artist for the file name and the TIT2/TPE1/TPE2 frames
//   - Album for the TALB frame
//   - TrackNumber and DiscNumber for the TRCK/TPOS frames
//   - Artwork, the raw cover image bytes as served by the catalog
//
// Track and disc numbers are kept as strings because the catalog reports
// them in either numeric or textual form and they are written verbatim.
//
// A Song is never modified after it has been produced.
type Song struct {
	// Title is the song name.
	Title string

	// Artist is the primary artist name.
	Artist string

	// Album is the album name.
	Album string

	// TrackNumber is the position of the song on its disc.
	TrackNumber string

	// DiscNumber is the disc the song belongs to.
	DiscNumber string

	// Artwork is the undecoded cover image. Nil means no artwork.
	Artwork []byte
}

// HasArtwork returns true if the song carries cover art bytes.
func (s Song) HasArtwork() bool {
	return len(s.Artwork) > 0
}

// FallbackSong returns the placeholder metadata used when a catalog lookup
// fails for the given identifier.
//
// The result has the same shape as a successful lookup, so downstream code
// does not need to special-case it:
//
//	FallbackSong("42") // {Title: "42", Artist: "Unknown", Album: "Unknown", TrackNumber: "0", DiscNumber: "0"}
func FallbackSong(identifier string) Song {
	return Song{
		Title:       identifier,
		Artist:      UnknownArtist,
		Album:       UnknownAlbum,
		TrackNumber: UnknownNumber,
		DiscNumber:  UnknownNumber,
	}
}
