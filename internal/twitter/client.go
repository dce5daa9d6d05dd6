package twitter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clitter/internal/logger"
	"clitter/internal/models"

	"github.com/sethvargo/go-retry"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "http://twitter.com"
	DefaultTimeout           = 30 * time.Second
	DefaultRetries           = 2
	DefaultRequestsPerSecond = 5

	statusesPrefix = "/statuses/"
	accountPrefix  = "/account/"
)

// ErrNoCredentials is returned by calls that need a login when none is set.
var ErrNoCredentials = errors.New("username and password are required")

// TransportError reports a failed call: network trouble, a timeout or a
// non-2xx reply. StatusCode is zero when no reply was received.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL           string
	Username          string
	Password          string
	Timeout           time.Duration
	Retries           uint64
	RequestsPerSecond float64
	// DumpHTTP logs every request and response at debug level.
	DumpHTTP bool
}

// Client talks to the statuses API over HTTP with basic authentication.
type Client struct {
	opts    Options
	http    *fasthttp.Client
	limiter *rate.Limiter
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return &Client{
		opts: opts,
		http: &fasthttp.Client{
			Name:         "clitter",
			ReadTimeout:  opts.Timeout,
			WriteTimeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
	}
}

// FriendsTimeline returns the statuses of the account and its friends that
// are newer than sinceID when hasSince is set.
func (c *Client) FriendsTimeline(ctx context.Context, sinceID int64, hasSince bool) (models.Timeline, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	query := map[string]string{}
	if hasSince {
		query["since_id"] = strconv.FormatInt(sinceID, 10)
	}
	body, err := c.get(ctx, statusesPrefix+"friends_timeline.json", query)
	if err != nil {
		return nil, err
	}
	return models.DecodeTimeline(body)
}

// UserTimeline returns screenName's statuses, or the account's own when
// screenName is empty.
func (c *Client) UserTimeline(ctx context.Context, screenName string, sinceID int64, hasSince bool) (models.Timeline, error) {
	if err := c.requireLogin(); err != nil {
		return nil, err
	}
	if screenName == "" {
		screenName = c.opts.Username
	}
	query := map[string]string{"id": screenName}
	if hasSince {
		query["since_id"] = strconv.FormatInt(sinceID, 10)
	}
	body, err := c.get(ctx, statusesPrefix+"user_timeline.json", query)
	if err != nil {
		return nil, err
	}
	return models.DecodeTimeline(body)
}

// Update posts a new status.
func (c *Client) Update(ctx context.Context, status string) (models.StatusEntry, error) {
	if err := c.requireLogin(); err != nil {
		return models.StatusEntry{}, err
	}
	body, err := c.post(ctx, statusesPrefix+"update.json", map[string]string{"status": status})
	if err != nil {
		return models.StatusEntry{}, err
	}
	return models.DecodeStatus(body)
}

// Destroy deletes one of the account's statuses.
func (c *Client) Destroy(ctx context.Context, id int64) (models.StatusEntry, error) {
	if err := c.requireLogin(); err != nil {
		return models.StatusEntry{}, err
	}
	body, err := c.post(ctx, statusesPrefix+"destroy/"+strconv.FormatInt(id, 10)+".json", nil)
	if err != nil {
		return models.StatusEntry{}, err
	}
	return models.DecodeStatus(body)
}

// RateLimitStatus reports the remaining API hits for the current hour.
func (c *Client) RateLimitStatus(ctx context.Context) (models.RateLimitStatus, error) {
	if err := c.requireLogin(); err != nil {
		return models.RateLimitStatus{}, err
	}
	body, err := c.get(ctx, accountPrefix+"rate_limit_status.json", nil)
	if err != nil {
		return models.RateLimitStatus{}, err
	}
	return models.DecodeRateLimit(body)
}

func (c *Client) requireLogin() error {
	if c.opts.Username == "" || c.opts.Password == "" {
		return ErrNoCredentials
	}
	return nil
}

// get is retried on network errors and 5xx replies; post never is, since
// updates are not idempotent.
func (c *Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	var body []byte
	backoff := retry.WithMaxRetries(c.opts.Retries, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := c.do(ctx, fasthttp.MethodGet, path, query)
		if err != nil {
			var te *TransportError
			if errors.As(err, &te) && (te.StatusCode == 0 || te.StatusCode >= 500) && ctx.Err() == nil {
				logger.Debug("http_retry", "path", path, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		body = b
		return nil
	})
	return body, err
}

func (c *Client) post(ctx context.Context, path string, form map[string]string) ([]byte, error) {
	return c.do(ctx, fasthttp.MethodPost, path, form)
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string) ([]byte, error) {
	url := c.opts.BaseURL + path
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: method, URL: url, Err: err}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAuthorization, basicAuth(c.opts.Username, c.opts.Password))
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if method == fasthttp.MethodGet {
		args := req.URI().QueryArgs()
		for k, v := range params {
			args.Set(k, v)
		}
	} else {
		args := fasthttp.AcquireArgs()
		defer fasthttp.ReleaseArgs(args)
		for k, v := range params {
			args.Set(k, v)
		}
		req.Header.SetContentType("application/x-www-form-urlencoded")
		req.SetBody(args.QueryString())
	}

	deadline := time.Now().Add(c.opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if c.opts.DumpHTTP {
		logger.Debug("http_request", "method", method, "uri", req.URI().String(), "body", string(req.Body()))
	}

	start := time.Now()
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		logger.Debug("http_failed", "method", method, "uri", url, "error", err)
		return nil, &TransportError{Op: method, URL: url, Err: err}
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if c.opts.DumpHTTP {
		logger.Debug("http_response", "method", method, "uri", url, "status", status, "len", len(body), "elapsed", time.Since(start), "body", string(body))
	}

	if status < 200 || status > 299 {
		return nil, &TransportError{Op: method, URL: url, StatusCode: status, Err: errors.New(replyMessage(status, body))}
	}
	return body, nil
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// replyMessage picks a short human-readable reason for a failed reply.
func replyMessage(status int, body []byte) string {
	var reply struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &reply); err == nil && reply.Error != "" {
		return reply.Error
	}
	return fasthttp.StatusMessage(status)
}
