// Package audio writes decoded audio to disk and tags it, and builds
// playlists of the converted files.
//
// # Writing and Tagging
//
// Use the Writer to store decoded bytes as "<artist> - <title>.mp3" and tag
// them in one step:
//
//	w := audio.NewWriter(audio.DefaultWriterOptions(), logger)
//	res, err := w.Write(ctx, decoded, outputDir, song)
//
// The tagger supports:
//   - Title, Artist, Album Artist, Album
//   - Track Number, Disc Number
//   - Cover Art (embedded as a single PNG front cover)
//
// Audio bytes are written verbatim; nothing is transcoded. A tagging failure
// leaves the written file in place and is reported in Result.TagErr.
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist("ucdump", outcomes)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
