package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnexpectedShape matches every *ShapeError via errors.Is.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// ShapeError reports a reply that decoded as JSON but is not what the
// endpoint promises. Raw holds the decoded payload for display.
type ShapeError struct {
	Want string
	Raw  any
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape: want %s", e.Want)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrUnexpectedShape
}

func shapeError(want string, body []byte) *ShapeError {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		raw = string(body)
	}
	return &ShapeError{Want: want, Raw: raw}
}

// DecodeTimeline decodes a list of statuses. Anything other than a JSON
// array of objects carrying an id yields a *ShapeError.
func DecodeTimeline(body []byte) (Timeline, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, shapeError("a list of statuses", body)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to decode timeline: %w", err)
	}

	timeline := make(Timeline, 0, len(items))
	for _, item := range items {
		status, ok := decodeStatus(item)
		if !ok {
			return nil, shapeError("a list of statuses", body)
		}
		timeline = append(timeline, status)
	}
	return timeline, nil
}

// DecodeStatus decodes a single status object, as returned by update and
// destroy.
func DecodeStatus(body []byte) (StatusEntry, error) {
	status, ok := decodeStatus(bytes.TrimSpace(body))
	if !ok {
		return StatusEntry{}, shapeError("a status with an id", body)
	}
	return status, nil
}

func decodeStatus(raw []byte) (StatusEntry, bool) {
	if len(raw) == 0 || raw[0] != '{' {
		return StatusEntry{}, false
	}
	var probe struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.ID == nil {
		return StatusEntry{}, false
	}
	var status StatusEntry
	if err := json.Unmarshal(raw, &status); err != nil {
		return StatusEntry{}, false
	}
	return status, true
}

// DecodeRateLimit decodes the rate limit reply; both hit counters are required.
func DecodeRateLimit(body []byte) (RateLimitStatus, error) {
	var probe struct {
		RemainingHits *int64 `json:"remaining_hits"`
		HourlyLimit   *int64 `json:"hourly_limit"`
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return RateLimitStatus{}, shapeError("a rate limit object", body)
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil || probe.RemainingHits == nil || probe.HourlyLimit == nil {
		return RateLimitStatus{}, shapeError("a rate limit object", body)
	}
	var status RateLimitStatus
	if err := json.Unmarshal(trimmed, &status); err != nil {
		return RateLimitStatus{}, fmt.Errorf("failed to decode rate limit: %w", err)
	}
	return status, nil
}
