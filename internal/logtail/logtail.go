package logtail

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Read returns at most maxLines from the end of the file at path. A maxLines
// of zero or less returns every line.
func Read(path string, maxLines int) ([]string, error) {
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
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
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
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Humanize rewrites zerolog JSON records in console form.
func Humanize(lines []string) []string {
	out := make([]string, 0, len(lines))
	var buf bytes.Buffer
	w := zerolog.ConsoleWriter{Out: &buf, NoColor: true, TimeFormat: time.RFC3339}
	for _, line := range lines {
		if !looksJSON(line) {
			out = append(out, line)
			continue
		}
		buf.Reset()
		if _, err := w.Write([]byte(line)); err != nil {
			out = append(out, line)
			continue
		}
		out = append(out, strings.TrimRight(buf.String(), "\n"))
	}
	return out
}

// MinLevel drops records below level. Lines without a recognizable level
// are kept.
func MinLevel(lines []string, level zerolog.Level) []string {
	if level <= zerolog.TraceLevel {
		return lines
	}
	out := lines[:0:0]
	for _, line := range lines {
		lvl, ok := lineLevel(line)
		if ok && lvl < level {
			continue
		}
		out = append(out, line)
	}
	return out
}

func looksJSON(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
}

// consoleLevels are the abbreviations zerolog's console writer prints.
var consoleLevels = map[string]zerolog.Level{
	"TRC": zerolog.TraceLevel,
	"DBG": zerolog.DebugLevel,
	"INF": zerolog.InfoLevel,
	"WRN": zerolog.WarnLevel,
	"ERR": zerolog.ErrorLevel,
	"FTL": zerolog.FatalLevel,
	"PNC": zerolog.PanicLevel,
}

func lineLevel(line string) (zerolog.Level, bool) {
	if looksJSON(line) {
		var rec struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil || rec.Level == "" {
			return zerolog.NoLevel, false
		}
		lvl, err := zerolog.ParseLevel(rec.Level)
		if err != nil {
			return zerolog.NoLevel, false
		}
		return lvl, true
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return zerolog.NoLevel, false
	}
	lvl, ok := consoleLevels[fields[1]]
	return lvl, ok
}
