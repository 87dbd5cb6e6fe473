package model

// Stage identifies a step of the per-entry conversion pipeline.
type Stage int

const (
	// StageDiscovered means the entry was found but no work has started.
	StageDiscovered Stage = iota

	// StageDecoding covers reading and decoding the cache file. Metadata
	// lookup runs concurrently within the same stage.
	StageDecoding

	// StageFetchingMetadata is reported when the catalog lookup is in flight.
	StageFetchingMetadata

	// StageWriting covers writing decoded audio to the output file.
	StageWriting

	// StageTagging covers writing ID3 frames into the output file.
	StageTagging

	// StageDone means the output file exists on disk.
	StageDone
)

// String returns the lower-case stage name used in logs.
func (s Stage) String() string {
	switch s {
	case StageDiscovered:
		return "discovered"
	case StageDecoding:
		return "decoding"
	case StageFetchingMetadata:
		return "fetching-metadata"
	case StageWriting:
		return "writing"
	case StageTagging:
		return "tagging"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Status is the terminal classification of an Outcome.
type Status string

const (
	StatusDone           Status = "done"
	StatusDoneFallback   Status = "done-with-fallback"
	StatusDoneTagFailure Status = "done-with-tag-failure"
	StatusFailed         Status = "failed"
)

// Outcome records the result of converting one CacheEntry.
//
// Outcome is used only for reporting. A failed outcome is never retried
// automatically and nothing is written to disk about it.
type Outcome struct {
	// Entry is the cache entry that was processed.
	Entry CacheEntry

	// OutputPath is where the decoded audio was written. Empty if the
	// pipeline failed before writing.
	OutputPath string

	// Stage is the last stage the entry reached.
	Stage Stage

	// Song is the metadata used for naming and tagging.
	Song Song

	// Fallback is true when the catalog lookup failed and placeholder
	// metadata was used instead.
	Fallback bool

	// TagErr is set when the audio was written but tagging failed.
	TagErr error

	// Err is set when the entry could not be converted at all.
	Err error

	// Size is the number of audio bytes written.
	Size int64
}

// Status classifies the outcome. Tag failures take precedence over
// fallback metadata because they leave the file untagged.
func (o Outcome) Status() Status {
	switch {
	case o.Err != nil:
		return StatusFailed
	case o.TagErr != nil:
		return StatusDoneTagFailure
	case o.Fallback:
		return StatusDoneFallback
	default:
		return StatusDone
	}
}

// Written reports whether an output file was produced.
func (o Outcome) Written() bool {
	return o.Err == nil && o.OutputPath != ""
}
