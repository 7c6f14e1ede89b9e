package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// capturedRequest records what the server saw for assertions.
type capturedRequest struct {
	cookies   map[string]string
	csrf      string
	variables map[string]any
	query     string
}

func captureRequest(t *testing.T, r *http.Request) capturedRequest {
	t.Helper()

	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("decode request: %v", err)
	}

	cookies := make(map[string]string)
	for _, c := range r.Cookies() {
		cookies[c.Name] = c.Value
	}

	return capturedRequest{
		cookies:   cookies,
		csrf:      r.Header.Get("X-CSRFToken"),
		variables: req.Variables,
		query:     req.Query,
	}
}

func writeGraphQL(w http.ResponseWriter, data string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"data":%s}`, data)
}

func TestRecentAccepted_NoCredentialSent(t *testing.T) {
	t.Parallel()

	var captured capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = captureRequest(t, r)
		writeGraphQL(w, `{"recentAcSubmissionList":[
			{"id":"1","title":"Two Sum","titleSlug":"two-sum","statusDisplay":"Accepted",
			 "timestamp":"1700000000","lang":"go","runtime":"4 ms","memory":"4.1 MB","url":"/submissions/detail/1/"}
		]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	subs, err := client.RecentAccepted(context.Background(), "alice")
	if err != nil {
		t.Fatalf("RecentAccepted failed: %v", err)
	}

	if len(captured.cookies) != 0 {
		t.Errorf("unauthenticated request should carry no cookies, got %v", captured.cookies)
	}
	if captured.csrf != "" {
		t.Error("unauthenticated request should carry no CSRF header")
	}
	if captured.variables["username"] != "alice" {
		t.Errorf("username variable = %v, want alice", captured.variables["username"])
	}

	if len(subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(subs))
	}
	if subs[0].TitleSlug != "two-sum" {
		t.Errorf("TitleSlug = %s, want two-sum", subs[0].TitleSlug)
	}
	if !subs[0].Accepted() {
		t.Error("submission should be accepted")
	}
	if got := subs[0].SubmittedAt(); !got.Equal(time.Unix(1700000000, 0).UTC()) {
		t.Errorf("SubmittedAt = %v", got)
	}
	if subs[0].AbsoluteURL() != "https://leetcode.com/submissions/detail/1/" {
		t.Errorf("AbsoluteURL = %s", subs[0].AbsoluteURL())
	}
}

func TestFullHistory_SendsCredential(t *testing.T) {
	t.Parallel()

	var captured capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = captureRequest(t, r)
		writeGraphQL(w, `{"submissionList":{"hasNext":false,"submissions":[]}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetPageDelay(0)

	_, err := client.FullHistory(context.Background(), Session{Cookie: "sess-value", CSRFToken: "csrf-value"})
	if err != nil {
		t.Fatalf("FullHistory failed: %v", err)
	}

	if captured.cookies["LEETCODE_SESSION"] != "sess-value" {
		t.Errorf("LEETCODE_SESSION cookie = %q, want sess-value", captured.cookies["LEETCODE_SESSION"])
	}
	if captured.cookies["csrftoken"] != "csrf-value" {
		t.Errorf("csrftoken cookie = %q, want csrf-value", captured.cookies["csrftoken"])
	}
	if captured.csrf != "csrf-value" {
		t.Errorf("X-CSRFToken = %q, want csrf-value", captured.csrf)
	}
}

func TestFullHistory_Paginates(t *testing.T) {
	t.Parallel()

	var offsets []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := captureRequest(t, r)
		offset := int(captured.variables["offset"].(float64))
		offsets = append(offsets, offset)

		switch offset {
		case 0:
			writeGraphQL(w, `{"submissionList":{"hasNext":true,"submissions":[
				{"titleSlug":"two-sum","statusDisplay":"Accepted","timestamp":"1700000000","lang":"go","runtime":"4 ms","memory":"4 MB","url":"/s/1/"}
			]}}`)
		default:
			writeGraphQL(w, `{"submissionList":{"hasNext":false,"submissions":[
				{"titleSlug":"valid-anagram","statusDisplay":"Wrong Answer","timestamp":"1700000100","lang":"go","runtime":"","memory":"","url":"/s/2/"}
			]}}`)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetPageDelay(0)

	subs, err := client.FullHistory(context.Background(), Session{Cookie: "sess"})
	if err != nil {
		t.Fatalf("FullHistory failed: %v", err)
	}

	if len(subs) != 2 {
		t.Fatalf("got %d submissions, want 2", len(subs))
	}
	if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != HistoryPageSize {
		t.Errorf("offsets = %v, want [0 %d]", offsets, HistoryPageSize)
	}
}

func TestFullHistory_SessionExpired(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"errors":[{"message":"Authentication required"}],"data":null}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetPageDelay(0)

	_, err := client.FullHistory(context.Background(), Session{Cookie: "stale"})
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("err = %v, want ErrSessionExpired", err)
	}
}

func TestFullHistory_ZeroSession(t *testing.T) {
	t.Parallel()

	client := NewClient("http://unused.invalid")
	if _, err := client.FullHistory(context.Background(), Session{}); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("err = %v, want ErrSessionExpired", err)
	}
}

func TestRecentAccepted_GraphQLError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"errors":[{"message":"That user does not exist."}],"data":null}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	_, err := client.RecentAccepted(context.Background(), "ghost")
	if !errors.Is(err, ErrGraphQL) {
		t.Errorf("err = %v, want ErrGraphQL", err)
	}
}

func TestRecentAccepted_TransportErrorSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Connection refused from here on.

	client := NewClient(srv.URL)

	_, err := client.RecentAccepted(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected transport error")
	}
}

func TestRecentAccepted_HTTPStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unhappy", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	if _, err := client.RecentAccepted(context.Background(), "alice"); err == nil {
		t.Fatal("expected status error")
	}
}

func TestFullHistory_ContextCancelDuringPaging(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeGraphQL(w, `{"submissionList":{"hasNext":true,"submissions":[
			{"titleSlug":"two-sum","statusDisplay":"Accepted","timestamp":"1700000000","lang":"go","runtime":"","memory":"","url":"/s/1/"}
		]}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	client.SetPageDelay(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FullHistory(ctx, Session{Cookie: "sess"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}
