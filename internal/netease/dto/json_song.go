package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/handiism/ucdump/internal/model"
)

// ErrNoSong is returned when the detail response lists no songs.
var ErrNoSong = errors.New("no song in detail response")

// DetailResponse represents the song detail document returned by
// "<base>?type=detail&id=<id>".
//
// Only the fields needed for tagging are mapped. Pointer fields distinguish
// a missing key from an empty value.
type DetailResponse struct {
	Code  int        `json:"code"`
	Songs []JSONSong `json:"songs"`
}

// JSONSong represents one entry of the songs list.
type JSONSong struct {
	Name    *string      `json:"name"`
	Artists []JSONArtist `json:"ar"`
	Album   *JSONAlbum   `json:"al"`
	No      *FlexString  `json:"no"`
	CD      *FlexString  `json:"cd"`
}

// JSONArtist represents an artist credit.
type JSONArtist struct {
	Name *string `json:"name"`
}

// JSONAlbum represents the album a song belongs to.
type JSONAlbum struct {
	Name   *string `json:"name"`
	PicURL string  `json:"picUrl"`
}

// FlexString accepts a JSON string or number and keeps its text form.
//
// The catalog reports track numbers as integers and disc numbers as strings
// such as "01", so both shapes are accepted. Objects, arrays and booleans
// are rejected.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("empty value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
		return nil
	default:
		return fmt.Errorf("expected string or number, got %s", data)
	}
}

// ToSong converts the first song of the response into a model.Song and
// returns the album picture URL separately. Artwork bytes are not fetched.
//
// Returns an error if any of the required fields (song name, first artist
// name, album name, track number, disc number) is missing.
func (r *DetailResponse) ToSong() (model.Song, string, error) {
	if len(r.Songs) == 0 {
		return model.Song{}, "", ErrNoSong
	}
	js := r.Songs[0]

	switch {
	case js.Name == nil:
		return model.Song{}, "", missingField("name")
	case len(js.Artists) == 0 || js.Artists[0].Name == nil:
		return model.Song{}, "", missingField("ar[0].name")
	case js.Album == nil || js.Album.Name == nil:
		return model.Song{}, "", missingField("al.name")
	case js.No == nil:
		return model.Song{}, "", missingField("no")
	case js.CD == nil:
		return model.Song{}, "", missingField("cd")
	}

	song := model.Song{
		Title:       *js.Name,
		Artist:      *js.Artists[0].Name,
		Album:       *js.Album.Name,
		TrackNumber: string(*js.No),
		DiscNumber:  string(*js.CD),
	}
	return song, js.Album.PicURL, nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field songs[0].%s", name)
}
