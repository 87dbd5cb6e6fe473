// Package watch converts cache files as soon as the music client finishes
// writing them.
//
// The client writes a cache file in several chunks while a song plays, so
// events are debounced per file: a file is converted only after it has not
// changed for a quiet period. Nothing is remembered between runs.
package watch
