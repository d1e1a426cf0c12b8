package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. When keep is non-nil only lines
// it accepts are counted.
func Read(path string, maxLines int, keep func(string) bool) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			if keep == nil || keep(scanner.Text()) {
				lines = append(lines, scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if keep != nil && !keep(line) {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level classifies an entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry is one parsed log line.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Raw     string
}

// stdTimeLayout matches log.LstdFlags.
const stdTimeLayout = "2006/01/02 15:04:05"

// Parse splits a line written by the standard logger with LstdFlags and an
// optional "LEVEL:" prefix on the message. Lines that do not match keep their
// text in Message and default to INFO.
func Parse(line string) Entry {
	entry := Entry{Level: LevelInfo, Message: strings.TrimSpace(line), Raw: line}
	if len(line) >= len(stdTimeLayout) {
		if ts, err := time.ParseInLocation(stdTimeLayout, line[:len(stdTimeLayout)], time.Local); err == nil {
			entry.Time = ts
			entry.Message = strings.TrimSpace(line[len(stdTimeLayout):])
		}
	}
	for _, lvl := range []Level{LevelError, LevelWarn, LevelInfo} {
		prefix := string(lvl) + ":"
		if strings.HasPrefix(entry.Message, prefix) {
			entry.Level = lvl
			entry.Message = strings.TrimSpace(strings.TrimPrefix(entry.Message, prefix))
			break
		}
	}
	return entry
}

// AtLeast returns a keep func for Read accepting entries at or above min.
func AtLeast(min Level) func(string) bool {
	rank := func(l Level) int {
		switch l {
		case LevelError:
			return 2
		case LevelWarn:
			return 1
		default:
			return 0
		}
	}
	floor := rank(min)
	return func(line string) bool {
		return rank(Parse(line).Level) >= floor
	}
}
