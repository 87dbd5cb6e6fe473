// Package convert provides the orchestration logic that turns NetEase
// CloudMusic cache files into tagged MP3 files.
//
// # Manager
//
// The Manager coordinates the entire conversion:
//
//  1. Scan the cache directory for entries
//  2. For each entry, decode the cache file and look up song metadata
//     concurrently
//  3. Write the decoded audio as "<artist> - <title>.mp3"
//  4. Tag the file with ID3 metadata and cover art
//  5. Generate a playlist (optional)
//
// # Basic Usage
//
//	manager, err := convert.NewManager(settings, logger, func(event convert.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	outcomes, err := manager.Run(ctx)
//
// # Concurrency
//
// At most settings.MaxConcurrentConversions entries are converted at once;
// zero removes the limit. One failing entry never affects the others. Its
// error is recorded in the entry's model.Outcome.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent,
// including one Verbose event per pipeline stage transition:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Counters for bytes and files are available through GetProgress.
package convert
