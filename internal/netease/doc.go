// Package netease looks up song metadata and cover art in the NetEase
// CloudMusic catalog.
//
// The catalog is reached through a public JSON proxy. A detail request has
// the form "<base>?type=detail&id=<identifier>" and its first song supplies
// the title, first artist, album name, album picture URL, track number and
// disc number.
//
// # Fallback
//
// Lookup never fails. Whenever the catalog cannot produce complete metadata
// the caller gets placeholder values instead, so every decoded file can
// still be named and tagged:
//
//	client := netease.NewClient(httpClient, netease.Options{}, logger)
//	lookup := client.Lookup(ctx, "1347203552")
//	if lookup.Fallback {
//	    // lookup.Song is {Title: "1347203552", Artist: "Unknown", ...}
//	}
//
// A failed artwork download also triggers the fallback, discarding the text
// metadata that was already obtained. A song without a picture URL is not a
// failure; its Artwork is simply nil.
package netease
