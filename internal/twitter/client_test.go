package twitter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"clitter/internal/models"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:           srv.URL,
		Username:          "ann",
		Password:          "secret",
		Timeout:           2 * time.Second,
		Retries:           2,
		RequestsPerSecond: 1000,
	})
}

func TestFriendsTimelineSendsCursorAndAuth(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/statuses/friends_timeline.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "ann" || pass != "secret" {
			t.Errorf("missing or wrong basic auth: %q %q %v", user, pass, ok)
		}
		if got := r.URL.Query().Get("since_id"); got != "5" {
			t.Errorf("since_id = %q want 5", got)
		}
		io.WriteString(w, `[{"id": 7, "text": "d"}, {"id": 6, "text": "c"}]`)
	}))

	tl, err := c.FriendsTimeline(context.Background(), 5, true)
	if err != nil {
		t.Fatalf("FriendsTimeline error: %v", err)
	}
	if len(tl) != 2 || tl[0].ID != 7 {
		t.Fatalf("unexpected timeline: %v", tl.IDs())
	}
}

func TestUserTimelineWithoutCursor(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("id") != "bob" {
			t.Errorf("id = %q want bob", q.Get("id"))
		}
		if q.Has("since_id") {
			t.Errorf("since_id sent without a cursor")
		}
		io.WriteString(w, `[]`)
	}))

	tl, err := c.UserTimeline(context.Background(), "bob", 0, false)
	if err != nil {
		t.Fatalf("UserTimeline error: %v", err)
	}
	if len(tl) != 0 {
		t.Fatalf("expected empty timeline, got %v", tl.IDs())
	}
}

func TestUserTimelineDefaultsToAccount(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "ann" {
			t.Errorf("id = %q want ann", got)
		}
		io.WriteString(w, `[]`)
	}))
	if _, err := c.UserTimeline(context.Background(), "", 0, false); err != nil {
		t.Fatalf("UserTimeline error: %v", err)
	}
}

func TestUpdatePostsForm(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/statuses/update.json" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("status"); got != "hello & goodbye" {
			t.Errorf("status = %q", got)
		}
		io.WriteString(w, `{"id": 99, "text": "hello & goodbye"}`)
	}))

	s, err := c.Update(context.Background(), "hello & goodbye")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if s.ID != 99 {
		t.Fatalf("unexpected id %d", s.ID)
	}
}

func TestDestroyPath(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/statuses/destroy/12.json" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"id": 12}`)
	}))
	s, err := c.Destroy(context.Background(), 12)
	if err != nil || s.ID != 12 {
		t.Fatalf("Destroy unexpected: %+v %v", s, err)
	}
}

func TestRateLimitStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account/rate_limit_status.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"remaining_hits": 90, "hourly_limit": 100}`)
	}))
	rl, err := c.RateLimitStatus(context.Background())
	if err != nil {
		t.Fatalf("RateLimitStatus error: %v", err)
	}
	if rl.RemainingHits != 90 || rl.HourlyLimit != 100 {
		t.Fatalf("unexpected rate limit %+v", rl)
	}
}

func TestShapeErrorPassesThrough(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"request": "/statuses/friends_timeline.json"}`)
	}))
	_, err := c.FriendsTimeline(context.Background(), 0, false)
	if !errors.Is(err, models.ErrUnexpectedShape) {
		t.Fatalf("expected ErrUnexpectedShape, got %v", err)
	}
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error": "Could not authenticate you."}`)
	}))

	_, err := c.FriendsTimeline(context.Background(), 0, false)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if te.StatusCode != http.StatusUnauthorized || te.Err.Error() != "Could not authenticate you." {
		t.Fatalf("unexpected transport error: %+v", te)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `[{"id": 1}]`)
	}))

	tl, err := c.FriendsTimeline(context.Background(), 0, false)
	if err != nil {
		t.Fatalf("FriendsTimeline error: %v", err)
	}
	if len(tl) != 1 || calls.Load() != 3 {
		t.Fatalf("unexpected result: %v after %d calls", tl.IDs(), calls.Load())
	}
}

func TestPostIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	if _, err := c.Update(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestMissingCredentials(t *testing.T) {
	c := New(Options{BaseURL: "http://127.0.0.1:1"})
	if _, err := c.FriendsTimeline(context.Background(), 0, false); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}
