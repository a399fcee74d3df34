package testjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnknownEvent is returned by Decode when the type/event pair is not one
// of the documented combinations.
var ErrUnknownEvent = errors.New("unknown event")

var (
	errNotSeconds = errors.New("expected a non-negative number of seconds")
	errNull       = errors.New("unexpected null")
)

// object is one event line keyed by exact field name. encoding/json
// matches struct tags case-insensitively, so fields are looked up here.
type object map[string]json.RawMessage

// field unmarshals the value under key into dst and reports whether the key
// was present.
func (o object) field(key string, dst any) (bool, error) {
	raw, ok := o[key]
	if !ok {
		return false, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return true, fmt.Errorf("field %q: %w", key, errNull)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("field %q: %w", key, err)
	}
	return true, nil
}

// tag returns a discriminator value, or "" when it is absent.
func (o object) tag(key string) (string, error) {
	var v string
	if _, err := o.field(key, &v); err != nil {
		return "", err
	}
	return v, nil
}

// seconds decodes a JSON number of seconds into a time.Duration.
type seconds time.Duration

func (s *seconds) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNotSeconds
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) || f >= float64(math.MaxInt64)/float64(time.Second) {
		return errNotSeconds
	}
	*s = seconds(time.Duration(f * float64(time.Second)))
	return nil
}

// Decode parses one line of libtest JSON output into an Event.
func Decode(line []byte) (Event, error) {
	var o object
	if err := json.Unmarshal(line, &o); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	typ, err := o.tag("type")
	if err != nil {
		return nil, fmt.Errorf("decoding event header: %w", err)
	}
	event, err := o.tag("event")
	if err != nil {
		return nil, fmt.Errorf("decoding event header: %w", err)
	}

	switch typ {
	case TypeSuite:
		return decodeSuite(event, o)
	case TypeTest:
		return decodeTest(event, o)
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnknownEvent, typ)
	}
}

func decodeSuite(event string, o object) (Event, error) {
	switch event {
	case EventStarted:
		var count uint64
		if err := required(o, "suite", event, "test_count", &count); err != nil {
			return nil, err
		}
		return SuiteStarted{TestCount: count}, nil

	case EventOk, EventFailed:
		e := SuiteFinished{Outcome: outcomeOf(event)}
		fields := []struct {
			name string
			dst  *uint64
		}{
			{"passed", &e.Passed},
			{"failed", &e.Failed},
			{"allowed_fail", &e.AllowedFail},
			{"ignored", &e.Ignored},
			{"filtered_out", &e.FilteredOut},
		}
		for _, f := range fields {
			if err := required(o, "suite", event, f.name, f.dst); err != nil {
				return nil, err
			}
		}
		var secs seconds
		if err := required(o, "suite", event, "exec_time", &secs); err != nil {
			return nil, err
		}
		e.ExecTime = time.Duration(secs)
		return e, nil

	default:
		return nil, fmt.Errorf("%w: suite event %q", ErrUnknownEvent, event)
	}
}

func decodeTest(event string, o object) (Event, error) {
	switch event {
	case EventStarted, EventOk, EventFailed:
	default:
		return nil, fmt.Errorf("%w: test event %q", ErrUnknownEvent, event)
	}

	var name string
	if err := required(o, "test", event, "name", &name); err != nil {
		return nil, err
	}
	if event == EventStarted {
		return TestStarted{Name: name}, nil
	}
	var secs seconds
	if err := required(o, "test", event, "exec_time", &secs); err != nil {
		return nil, err
	}

	e := TestFinished{
		Outcome:  outcomeOf(event),
		Name:     name,
		ExecTime: time.Duration(secs),
	}
	if e.Outcome == OutcomeFailed {
		if _, err := o.field("stdout", &e.Stdout); err != nil {
			return nil, fmt.Errorf("decoding test %s: %w", event, err)
		}
	}
	return e, nil
}

// required decodes a mandatory field.
func required(o object, typ, event, key string, dst any) error {
	ok, err := o.field(key, dst)
	if err != nil {
		return fmt.Errorf("decoding %s %s: %w", typ, event, err)
	}
	if !ok {
		return missingField(typ, event, key)
	}
	return nil
}

func outcomeOf(event string) Outcome {
	if event == EventFailed {
		return OutcomeFailed
	}
	return OutcomeOk
}

func missingField(typ, event, field string) error {
	return fmt.Errorf("%s %s: missing field %q", typ, event, field)
}
