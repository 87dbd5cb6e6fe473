// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Context-aware file writing
//   - Name sanitization for output file names
//   - Directory creation and advisory locking
//   - Cover art decoding, resizing and PNG conversion
//
// # File Operations
//
//	// Write decoded audio
//	err := ioutils.WriteFile(ctx, "/music/Artist - Title.mp3", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/music")
//
//	// Keep other processes out of the output directory
//	unlock, err := ioutils.LockDir("/music")
//	defer unlock()
//
// # Name Sanitization
//
// Use SanitizeName on catalog strings before building file names:
//
//	safe := ioutils.SanitizeName("AC/DC") // Returns "ACDC"
//
// # Image Processing
//
// The ImageService turns catalog artwork into PNG for the APIC frame:
//
//	svc := ioutils.NewImageService()
//	cover, _ := svc.ConvertToPNG(ctx, artwork)
//	small, _ := svc.ResizeImage(ctx, artwork, 500, 500)
package ioutils
