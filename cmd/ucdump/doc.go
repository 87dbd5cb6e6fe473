// Command ucdump converts NetEase CloudMusic cache files into tagged MP3s.
//
// Usage:
//
//	ucdump convert [--cache-dir D] [--output-dir D] [--concurrency N] [--playlist]
//	ucdump scan    [--cache-dir D]
//	ucdump watch   [--cache-dir D] [--output-dir D]
//	ucdump config init [--path FILE] [--overwrite]
//
// Settings are read from the config file (--config, or the per-user default),
// then overridden by .env and UCDUMP_* environment variables, then by flags.
package main
