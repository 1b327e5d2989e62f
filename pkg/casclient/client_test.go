package casclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xetproto/xetgo/pkg/xethash"
)

func TestResolveParsesReconstructionResponse(t *testing.T) {
	fileHash := xethash.DataHash([]byte("a file"))
	xorbHash := xethash.DataHash([]byte("a xorb"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reconstruction/"+fileHash.String() {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprintf(w, `{
			"offset_into_first_range": 0,
			"terms": [{"hash": %q, "unpacked_length": 12, "range": {"start": 0, "end": 1}}],
			"fetch_info": {%q: [{"range": {"start": 0, "end": 1}, "url": "http://example/blob", "url_range": {"start": 0, "end": 99}}]}
		}`, xorbHash.String(), xorbHash.String())
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-token")
	info, err := c.Resolve(context.Background(), fileHash, nil)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(info.Terms) != 1 || info.Terms[0].UnpackedLength != 12 {
		t.Fatalf("unexpected terms: %+v", info.Terms)
	}
	if info.Terms[0].XorbHash != xorbHash {
		t.Fatalf("xorb hash mismatch: got %s, want %s", info.Terms[0].XorbHash, xorbHash)
	}
	fis := info.FetchInfo[xorbHash.String()]
	if len(fis) != 1 || fis[0].URL != "http://example/blob" || fis[0].URLRangeEnd != 99 {
		t.Fatalf("unexpected fetch-info: %+v", fis)
	}
}

func TestFetchRangeAcceptsPartialContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Range") != "bytes=10-19" {
			t.Fatalf("unexpected Range header %q", r.Header.Get("Range"))
		}
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	body, err := c.FetchRange(context.Background(), server.URL, 10, 19)
	if err != nil {
		t.Fatalf("FetchRange failed: %v", err)
	}
	if string(body) != "0123456789" {
		t.Fatalf("got %q", body)
	}
}

func TestFetchRangeNonRetryableStatusFailsFast(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	c.MaxRetries = 3
	_, err := c.FetchRange(context.Background(), server.URL, 0, 9)
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if hits != 1 {
		t.Fatalf("expected exactly one request for a non-retryable status, got %d", hits)
	}
}

func TestFetchRangeRetriesRetryableStatus(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	c.MaxRetries = 5
	c.Backoff.Min = 1
	c.Backoff.Max = 2
	body, err := c.FetchRange(context.Background(), server.URL, 0, 8)
	if err != nil {
		t.Fatalf("FetchRange failed: %v", err)
	}
	if string(body) != "recovered" {
		t.Fatalf("got %q", body)
	}
	if hits != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits)
	}
}
