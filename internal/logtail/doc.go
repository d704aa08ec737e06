// Package logtail reads the tail of folio's log file for the logs command.
//
// Read keeps a ring buffer of the last maxLines lines so large files are
// scanned once without being held in memory. Humanize turns zerolog JSON
// records into the same one-line console form the console log format
// writes, so both formats print alike; lines that are not JSON pass through
// unchanged. MinLevel filters records below a level and keeps lines whose
// level cannot be determined.
//
// A missing log file is not an error: Read returns no lines.
package logtail
