// Package leetcode provides a client for the LeetCode GraphQL API.
// Credentials are injected explicitly per call; the client itself holds
// no ambient authentication state.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// ClientTimeout is the total request timeout.
	ClientTimeout = 30 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second

	// RecentLimit is the page size of the lightweight recent query.
	RecentLimit = 20
	// HistoryPageSize is the page size of the authenticated history query.
	HistoryPageSize = 20

	// DefaultPageDelay paces paginated history requests.
	DefaultPageDelay = 1 * time.Second

	userAgent = "Leetboard/1.0"
)

// Common client errors.
var (
	// ErrSessionExpired indicates the session cookie was rejected.
	ErrSessionExpired = errors.New("leetcode session expired or invalid")
	// ErrGraphQL indicates the API returned a GraphQL-level error.
	ErrGraphQL = errors.New("leetcode graphql error")
)

// Session is an explicit LeetCode credential. A zero Session sends no
// authentication headers at all.
type Session struct {
	Cookie    string // LEETCODE_SESSION cookie value
	CSRFToken string // optional csrftoken cookie value
}

// IsZero returns true if no credential is present.
func (s Session) IsZero() bool {
	return s.Cookie == ""
}

// Client talks to the LeetCode GraphQL endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	pageDelay  time.Duration
}

// NewClient creates a Client for the given GraphQL endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		httpClient: newHTTPClient(),
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		pageDelay:  DefaultPageDelay,
	}
}

// SetPageDelay overrides the pacing delay between history pages.
func (c *Client) SetPageDelay(d time.Duration) {
	if d >= 0 {
		c.pageDelay = d
	}
}

// newHTTPClient creates an HTTP client configured for API calls.
// It has appropriate timeouts and does not follow redirects, so an
// auth redirect surfaces as a response instead of a silent hop.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: ClientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// RecentAccepted fetches the most recent accepted submissions for a
// public username. No credential is required or sent.
func (c *Client) RecentAccepted(ctx context.Context, username string) ([]SubmissionEntry, error) {
	payload := graphqlRequest{
		Query: recentAcceptedQuery,
		Variables: map[string]any{
			"username": username,
			"limit":    RecentLimit,
		},
	}

	var result recentAcceptedData
	if err := c.do(ctx, payload, Session{}, &result); err != nil {
		return nil, err
	}

	return result.RecentAcSubmissionList, nil
}

// FullHistory crawls the authenticated submission list page by page.
// This is the heavy path; callers should use it sparingly. Returns
// ErrSessionExpired when the credential is rejected.
func (c *Client) FullHistory(ctx context.Context, session Session) ([]SubmissionEntry, error) {
	if session.IsZero() {
		return nil, ErrSessionExpired
	}

	var all []SubmissionEntry
	offset := 0

	for {
		payload := graphqlRequest{
			Query: submissionListQuery,
			Variables: map[string]any{
				"offset": offset,
				"limit":  HistoryPageSize,
			},
		}

		var result submissionListData
		if err := c.do(ctx, payload, session, &result); err != nil {
			return nil, err
		}

		page := result.SubmissionList.Submissions
		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		if !result.SubmissionList.HasNext {
			break
		}
		offset += HistoryPageSize

		// Pace paginated requests to stay a good API citizen.
		if err := sleepCtx(ctx, c.pageDelay); err != nil {
			return nil, err
		}
	}

	return all, nil
}

// do executes a single GraphQL request and decodes the data payload.
// Request construction and transport failures are returned unchanged
// (wrapped with %w) so callers can inspect them.
func (c *Client) do(ctx context.Context, payload graphqlRequest, session Session, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	applySession(req, session)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("leetcode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("leetcode returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		msg := envelope.Errors[0].Message
		if strings.Contains(msg, "Authentication required") {
			return ErrSessionExpired
		}
		return fmt.Errorf("%w: %s", ErrGraphQL, msg)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}

	return nil
}

// applySession attaches the credential cookies when a session is
// present. A zero session leaves the request untouched.
func applySession(req *http.Request, session Session) {
	if session.IsZero() {
		return
	}

	req.AddCookie(&http.Cookie{Name: "LEETCODE_SESSION", Value: session.Cookie})
	if session.CSRFToken != "" {
		req.AddCookie(&http.Cookie{Name: "csrftoken", Value: session.CSRFToken})
		req.Header.Set("X-CSRFToken", session.CSRFToken)
	}
}

// sleepCtx sleeps for d unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
