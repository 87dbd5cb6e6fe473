// Package cache reads the NetEase CloudMusic audio cache.
//
// The package handles two concerns:
//
//  1. Locating cache files in a directory and deriving the song identifier
//     encoded in each file name
//  2. Reversing the cache encoding to recover the original audio bytes
//
// # Locating Entries
//
//	locator := cache.NewLocator(".uc", cache.KeepLast, logger)
//	index, err := locator.Scan(ctx, "/path/to/Cache")
//	for _, entry := range cache.Entries(index) {
//	    fmt.Println(entry.Identifier, entry.SourcePath)
//	}
//
// # Decoding
//
// Cache files are the original audio with every byte XORed with Key (0xA3).
// The transform is its own inverse:
//
//	plain := cache.Decode(encoded)
//	cache.Decode(plain) // == encoded
//
// Use ReadFile to read and decode a cache file in one step.
package cache
