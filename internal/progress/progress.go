package progress

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Layout is the timestamp format at the start of each line.
const Layout = "2006-Jan-02-15:04:05"

const sep = " : "

// Entry is one line of the progress log.
type Entry struct {
	Timestamp time.Time
	Message   string
}

// Log appends milestone lines to a file. It is opened once per run and
// released with Close.
type Log struct {
	mu   sync.Mutex
	f    *os.File
	path string
	now  func() time.Time
}

// Open opens path for appending, creating it and its directory if needed.
func Open(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening progress log: %w", err)
	}
	return &Log{f: f, path: path, now: time.Now}, nil
}

// SetClock replaces the time source. Used by tests.
func (l *Log) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

// Path returns the file the log writes to.
func (l *Log) Path() string { return l.path }

// Record writes one "<timestamp> : <message>" line.
func (l *Log) Record(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return fmt.Errorf("progress log %s is closed", l.path)
	}
	if _, err := io.WriteString(l.f, FormatLine(l.now(), message)); err != nil {
		return fmt.Errorf("writing progress log: %w", err)
	}
	return nil
}

// Close releases the file. Calling it more than once is a no-op.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// FormatLine renders one log line including the trailing newline.
func FormatLine(ts time.Time, message string) string {
	return ts.Format(Layout) + sep + message + "\n"
}

// ParseLine splits a log line into its timestamp and message.
func ParseLine(line string) (Entry, error) {
	ts, msg, ok := strings.Cut(line, sep)
	if !ok {
		return Entry{}, fmt.Errorf("missing %q separator", strings.TrimSpace(sep))
	}
	t, err := time.ParseInLocation(Layout, ts, time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", ts, err)
	}
	return Entry{Timestamp: t, Message: msg}, nil
}

// Read returns all entries in the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening progress log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if line == "" {
			continue
		}
		e, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading progress log: %w", err)
	}
	return entries, nil
}
