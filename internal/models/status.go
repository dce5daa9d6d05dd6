package models

import "time"

// CreatedAtLayout is the timestamp format the statuses API uses for created_at.
const CreatedAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// User is the author of a status. Name is the display name and may be empty.
type User struct {
	ID         int64  `json:"id" cbor:"1,keyasint,omitempty"`
	Name       string `json:"name,omitempty" cbor:"2,keyasint,omitempty"`
	ScreenName string `json:"screen_name,omitempty" cbor:"3,keyasint,omitempty"`
}

// DisplayName returns the best available label for the author.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.ScreenName
}

// StatusEntry is one post as returned by the server. Entries are never
// modified after they are fetched.
type StatusEntry struct {
	ID        int64  `json:"id" cbor:"1,keyasint"`
	CreatedAt string `json:"created_at" cbor:"2,keyasint"`
	Text      string `json:"text" cbor:"3,keyasint"`
	User      User   `json:"user" cbor:"4,keyasint"`
}

// CreatedTime parses CreatedAt using the server layout.
func (s StatusEntry) CreatedTime() (time.Time, error) {
	return time.Parse(CreatedAtLayout, s.CreatedAt)
}

// Timeline is an ordered newest-first sequence of statuses.
type Timeline []StatusEntry

// IDs returns the status ids in timeline order.
func (t Timeline) IDs() []int64 {
	ids := make([]int64, len(t))
	for i, s := range t {
		ids[i] = s.ID
	}
	return ids
}

// Newest returns the first entry, or false for an empty timeline.
func (t Timeline) Newest() (StatusEntry, bool) {
	if len(t) == 0 {
		return StatusEntry{}, false
	}
	return t[0], true
}

// RateLimitStatus is the reply of the rate limit endpoint.
type RateLimitStatus struct {
	RemainingHits int64 `json:"remaining_hits"`
	HourlyLimit   int64 `json:"hourly_limit"`
	// ResetTimeSeconds is a unix timestamp; zero when the server omits it.
	ResetTimeSeconds int64 `json:"reset_time_in_seconds,omitempty"`
}

// ResetTime returns the reset moment, or the zero time when unknown.
func (r RateLimitStatus) ResetTime() time.Time {
	if r.ResetTimeSeconds == 0 {
		return time.Time{}
	}
	return time.Unix(r.ResetTimeSeconds, 0)
}
