package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDetailResponse_ToSong(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTitle string
		wantTrack string
		wantDisc  string
		wantPic   string
		wantErr   string
	}{
		{
			name:      "numeric track string disc",
			body:      `{"code":200,"songs":[{"name":"Song","ar":[{"name":"A"},{"name":"B"}],"al":{"name":"Album","picUrl":"http://img/x.jpg"},"no":3,"cd":"01"}]}`,
			wantTitle: "Song",
			wantTrack: "3",
			wantDisc:  "01",
			wantPic:   "http://img/x.jpg",
		},
		{
			name:      "no picture url",
			body:      `{"songs":[{"name":"Song","ar":[{"name":"A"}],"al":{"name":"Album"},"no":"7","cd":2}]}`,
			wantTitle: "Song",
			wantTrack: "7",
			wantDisc:  "2",
		},
		{
			name:      "empty strings are present values",
			body:      `{"songs":[{"name":"","ar":[{"name":""}],"al":{"name":""},"no":0,"cd":""}]}`,
			wantTitle: "",
			wantTrack: "0",
			wantDisc:  "",
		},
		{
			name:    "no songs",
			body:    `{"code":404,"songs":[]}`,
			wantErr: "no song",
		},
		{
			name:    "missing name",
			body:    `{"songs":[{"ar":[{"name":"A"}],"al":{"name":"Album"},"no":1,"cd":"1"}]}`,
			wantErr: "songs[0].name",
		},
		{
			name:    "no artists",
			body:    `{"songs":[{"name":"S","ar":[],"al":{"name":"Album"},"no":1,"cd":"1"}]}`,
			wantErr: "ar[0].name",
		},
		{
			name:    "missing album",
			body:    `{"songs":[{"name":"S","ar":[{"name":"A"}],"no":1,"cd":"1"}]}`,
			wantErr: "al.name",
		},
		{
			name:    "null disc",
			body:    `{"songs":[{"name":"S","ar":[{"name":"A"}],"al":{"name":"Album"},"no":1,"cd":null}]}`,
			wantErr: "cd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp DetailResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			song, pic, err := resp.ToSong()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ToSong() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToSong() error = %v", err)
			}
			if song.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", song.Title, tt.wantTitle)
			}
			if song.TrackNumber != tt.wantTrack {
				t.Errorf("TrackNumber = %q, want %q", song.TrackNumber, tt.wantTrack)
			}
			if song.DiscNumber != tt.wantDisc {
				t.Errorf("DiscNumber = %q, want %q", song.DiscNumber, tt.wantDisc)
			}
			if pic != tt.wantPic {
				t.Errorf("picURL = %q, want %q", pic, tt.wantPic)
			}
			if song.Artwork != nil {
				t.Error("ToSong should not populate Artwork")
			}
		})
	}
}

func TestDetailResponse_NoSongsSentinel(t *testing.T) {
	var resp DetailResponse
	if _, _, err := resp.ToSong(); !errors.Is(err, ErrNoSong) {
		t.Errorf("ToSong() error = %v, want ErrNoSong", err)
	}
}

func TestFlexString_Mistyped(t *testing.T) {
	for _, body := range []string{
		`{"songs":[{"name":"S","ar":[{"name":"A"}],"al":{"name":"Al"},"no":{},"cd":"1"}]}`,
		`{"songs":[{"name":"S","ar":[{"name":"A"}],"al":{"name":"Al"},"no":1,"cd":[1]}]}`,
		`{"songs":[{"name":"S","ar":[{"name":"A"}],"al":{"name":"Al"},"no":true,"cd":"1"}]}`,
		`{"songs":[{"name":7,"ar":[{"name":"A"}],"al":{"name":"Al"},"no":1,"cd":"1"}]}`,
	} {
		var resp DetailResponse
		if err := json.Unmarshal([]byte(body), &resp); err == nil {
			t.Errorf("Unmarshal(%s) succeeded, want type error", body)
		}
	}
}
