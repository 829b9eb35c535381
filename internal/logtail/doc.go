// Package logtail reads the end of the fichas log file and renders its slog
// JSON records for the terminal.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// proportional to the requested tail rather than the file size. A missing
// file is not an error; fichas creates the log on first run.
//
// Parse and Format turn records such as
//
//	{"time":"2026-03-02T10:15:04Z","level":"INFO","msg":"result saved","app":"fichas","path":"/tmp/x.xlsx"}
//
// into
//
//	2026-03-02 10:15:04 INFO  result saved path=/tmp/x.xlsx
//
// Lines that are not JSON objects pass through unchanged.
package logtail
