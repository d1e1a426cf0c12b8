// Package logtail reads the tail of the Marquee log file for the Activity view.
//
// # Reading
//
// Read uses a ring buffer of maxLines entries, so it scans the file once and
// holds O(maxLines) lines regardless of file size. A missing file yields no
// lines and no error. An optional keep func filters lines before they enter
// the buffer, which lets the view ask for "the last 200 warnings" directly.
//
//	lines, err := logtail.Read(cfg.LogPath, 400, logtail.AtLeast(logtail.LevelWarn))
//
// # Format
//
// The application logs through the standard library logger with LstdFlags
// and prefixes messages with ERROR:, WARN: or INFO:.
//
//	2026/10/19 14:32:15 ERROR: delete category 3: api DELETE /api/v1/categories/3 returned status 409
//
// Parse recovers the timestamp, level and message. Lines without a level
// default to INFO; lines without a timestamp keep a zero Time.
package logtail
