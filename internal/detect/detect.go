// Package detect sniffs the head of the input to determine its format.
package detect

import (
	"bytes"
	"encoding/json"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown    Format = iota
	Libtest           // libtest NDJSON (--format json)
	GoTestJSON        // go test -json NDJSON stream
)

func (f Format) String() string {
	switch f {
	case Libtest:
		return "libtest"
	case GoTestJSON:
		return "gotest"
	default:
		return "unknown"
	}
}

// Sniff examines the lines in data until one identifies a format. data may
// be any prefix of the input: a truncated last line fails to parse and is
// ignored.
func Sniff(data []byte) Format {
	for len(data) > 0 {
		line, rest, _ := bytes.Cut(data, []byte{'\n'})
		if f := sniffLine(bytes.TrimSpace(line)); f != Unknown {
			return f
		}
		data = rest
	}
	return Unknown
}

func sniffLine(line []byte) Format {
	if len(line) == 0 || line[0] != '{' {
		return Unknown
	}

	var probe struct {
		Type   string `json:"type"`
		Event  string `json:"event"`
		Action string `json:"Action"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return Unknown
	}

	if isLibtest(probe.Type, probe.Event) {
		return Libtest
	}
	if validActions[probe.Action] {
		return GoTestJSON
	}
	return Unknown
}

func isLibtest(typ, event string) bool {
	if typ != "suite" && typ != "test" {
		return false
	}
	switch event {
	case "started", "ok", "failed", "ignored", "timeout", "allowed_fail":
		return true
	}
	return false
}

var validActions = map[string]bool{
	"start": true, "run": true, "pause": true, "cont": true,
	"pass": true, "bench": true, "fail": true, "output": true, "skip": true,
}
