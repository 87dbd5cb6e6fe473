// Package model defines the core data structures shared by the ucdump
// pipeline.
//
// # CacheEntry
//
// CacheEntry is one discovered cache file together with the song identifier
// taken from its name:
//
//	entry := model.CacheEntry{Identifier: "1347203552", SourcePath: "/cache/1347203552-320-0aa1.uc"}
//
// # Song
//
// Song carries the catalog metadata written into the output file's tags.
// FallbackSong builds the placeholder used when the catalog lookup fails:
//
//	song := model.FallbackSong("1347203552")
//	fmt.Println(song.Artist) // "Unknown"
//
// # Outcome
//
// Outcome records how far one entry got through the pipeline:
//
//	Discovered -> Decoding || FetchingMetadata -> Writing -> Tagging -> Done
//
// Outcomes are only reported and logged; nothing is persisted between runs.
package model
