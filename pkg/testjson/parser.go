package testjson

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Format selects how input lines are decoded.
type Format int

const (
	FormatLibtest Format = iota // cargo test -- --format json
	FormatGoTest                // go test -json
)

func (f Format) String() string {
	if f == FormatGoTest {
		return "gotest"
	}
	return "libtest"
}

// DefaultMaxLineLength bounds a single input line. Verbose failure output
// can be large, so this is generous.
const DefaultMaxLineLength = 1024 * 1024

// ProcessFunc receives each decoded event. Returning an error stops the stream.
type ProcessFunc func(Event) error

// StreamOptions configures Stream.
type StreamOptions struct {
	Format        Format
	MaxLineLength int
}

// Stats counts what Stream saw.
type Stats struct {
	Lines     int // non-blank lines read
	Events    int // events handed to the ProcessFunc
	Malformed int // lines that failed to decode and were skipped
}

// Stream reads r line by line, decodes each line and calls fn for every
// event. Lines that fail to decode are logged at debug level and skipped.
// The context is checked between lines.
func Stream(ctx context.Context, r io.Reader, opts StreamOptions, fn ProcessFunc) (Stats, error) {
	maxLine := opts.MaxLineLength
	if maxLine <= 0 {
		maxLine = DefaultMaxLineLength
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)

	decode := decodeLibtest
	if opts.Format == FormatGoTest {
		decode = NewGoTestTranslator().decode
	}

	var stats Stats
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		events, err := decode(line)
		if err != nil {
			stats.Malformed++
			slog.Debug("ignoring line", "err", err, "line", string(line))
			continue
		}
		for _, e := range events {
			slog.Log(ctx, LevelTrace, "event", "event", e)
			stats.Events++
			if err := fn(e); err != nil {
				return stats, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scanning test output: %w", err)
	}
	return stats, nil
}

var errMissingAction = errors.New("decoding go test event: missing Action")

// LevelTrace is the slog level used for per-event records.
const LevelTrace = slog.Level(-8)

// ParseStream collects all events from r.
func ParseStream(r io.Reader, format Format) ([]Event, Stats, error) {
	var events []Event
	stats, err := Stream(context.Background(), r, StreamOptions{Format: format}, func(e Event) error {
		events = append(events, e)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return events, stats, nil
}

// ParseBytes is a convenience for parsing from a byte slice.
func ParseBytes(data []byte, format Format) ([]Event, Stats, error) {
	return ParseStream(bytes.NewReader(data), format)
}

func decodeLibtest(line []byte) ([]Event, error) {
	e, err := Decode(line)
	if err != nil {
		return nil, err
	}
	return []Event{e}, nil
}

// decode parses one go test -json line and translates it.
func (t *GoTestTranslator) decode(line []byte) ([]Event, error) {
	var e GoTestEvent
	if err := json.Unmarshal(line, &e); err != nil {
		return nil, fmt.Errorf("decoding go test event: %w", err)
	}
	if e.Action == "" {
		return nil, errMissingAction
	}
	return t.Translate(e), nil
}
