// Package casclient implements the HTTP collaborator of spec §6: the CAS
// reconstruction resolver and the xorb byte-range GET, wired as a
// reconstruct.Resolver and reconstruct.RangeFetcher pair behind one
// *http.Client (optionally HTTP/3), grounded on the teacher's transport
// layer idiom of a single client struct implementing the core's
// collaborator interfaces, generalized here to the CAS wire protocol.
package casclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jpillora/backoff"

	"github.com/xetproto/xetgo/pkg/reconstruct"
	"github.com/xetproto/xetgo/pkg/xethash"
	"github.com/xetproto/xetgo/pkg/xeterr"
)

// Client resolves file reconstructions and fetches xorb byte ranges over
// HTTP, implementing both reconstruct.Resolver and reconstruct.RangeFetcher
// (spec §6, §9 "resolver abstraction").
type Client struct {
	HTTPClient  *http.Client
	CASURL      string
	AccessToken string
	MaxRetries  int
	Backoff     backoff.Backoff
}

// NewClient builds a Client over the default HTTP transport.
func NewClient(casURL, accessToken string) *Client {
	return newClient(casURL, accessToken, http.DefaultTransport)
}

// NewClientWithTransport builds a Client over a caller-supplied transport,
// e.g. quic-go/http3.RoundTripper for HTTP/3.
func NewClientWithTransport(casURL, accessToken string, transport http.RoundTripper) *Client {
	return newClient(casURL, accessToken, transport)
}

func newClient(casURL, accessToken string, transport http.RoundTripper) *Client {
	return &Client{
		HTTPClient:  &http.Client{Transport: transport},
		CASURL:      strings.TrimRight(casURL, "/"),
		AccessToken: accessToken,
		MaxRetries:  4,
		Backoff:     backoff.Backoff{Min: 100 * time.Millisecond, Max: 5 * time.Second, Factor: 2, Jitter: true},
	}
}

type wireRange struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

type wireURLRange struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

type wireTerm struct {
	Hash           string    `json:"hash"`
	UnpackedLength uint32    `json:"unpacked_length"`
	Range          wireRange `json:"range"`
}

type wireFetchInfo struct {
	Range    wireRange    `json:"range"`
	URL      string       `json:"url"`
	URLRange wireURLRange `json:"url_range"`
}

type wireReconstruction struct {
	OffsetIntoFirstRange uint64                     `json:"offset_into_first_range"`
	Terms                []wireTerm                 `json:"terms"`
	FetchInfo            map[string][]wireFetchInfo `json:"fetch_info"`
}

// Resolve implements reconstruct.Resolver against the JSON reconstruction
// endpoint of spec §6.
func (c *Client) Resolve(ctx context.Context, fileHash xethash.Hash, byteRange *reconstruct.ByteRange) (*reconstruct.ReconstructionInfo, error) {
	url := fmt.Sprintf("%s/reconstruction/%s", c.CASURL, fileHash.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xeterr.Wrap(xeterr.CodeNetworkError, "building reconstruction request", err)
	}
	c.setAuth(req)
	if byteRange != nil {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", byteRange.Start, byteRange.End))
	}

	resp, body, err := c.doWithRetry(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var wire wireReconstruction
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, xeterr.Wrap(xeterr.CodeNetworkError, "decoding reconstruction response", err)
	}

	info := &reconstruct.ReconstructionInfo{
		OffsetIntoFirstRange: wire.OffsetIntoFirstRange,
		Terms:                make([]reconstruct.Term, len(wire.Terms)),
		FetchInfo:            make(map[string][]reconstruct.FetchInfo, len(wire.FetchInfo)),
	}
	for i, t := range wire.Terms {
		h, err := xethash.FromAPIHex(t.Hash)
		if err != nil {
			return nil, err
		}
		info.Terms[i] = reconstruct.Term{
			XorbHash:       h,
			UnpackedLength: t.UnpackedLength,
			ChunkRange:     reconstruct.Range{Start: t.Range.Start, End: t.Range.End},
		}
	}
	for hexHash, fis := range wire.FetchInfo {
		converted := make([]reconstruct.FetchInfo, len(fis))
		for i, fi := range fis {
			converted[i] = reconstruct.FetchInfo{
				ChunkRange:    reconstruct.Range{Start: fi.Range.Start, End: fi.Range.End},
				URL:           fi.URL,
				URLRangeStart: fi.URLRange.Start,
				URLRangeEnd:   fi.URLRange.End,
			}
		}
		info.FetchInfo[hexHash] = converted
	}
	return info, nil
}

// FetchRange implements reconstruct.RangeFetcher: a GET against a
// pre-signed URL with an inclusive byte Range header, accepting 200 or
// 206 (spec §6 "Xorb byte-range GET").
func (c *Client) FetchRange(ctx context.Context, url string, startInclusive, endInclusive uint64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xeterr.Wrap(xeterr.CodeNetworkError, "building range request", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", startInclusive, endInclusive))

	resp, body, err := c.doWithRetry(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return body, nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}
}

// doWithRetry issues req, retrying retryable transport failures per
// spec §7's classification, using an exponential backoff with jitter. It
// validates the response status (200/206 for ranged GETs) and returns the
// fully-read body.
func (c *Client) doWithRetry(req *http.Request) (*http.Response, []byte, error) {
	b := c.Backoff
	b.Reset()

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = xeterr.Wrap(xeterr.CodeNetworkError, "http request failed", err)
			time.Sleep(b.Duration())
			continue
		}

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			classified := xeterr.FromHTTPStatus(resp.StatusCode, string(body))
			if !classified.IsRetryable() {
				return nil, nil, classified
			}
			lastErr = classified
			time.Sleep(b.Duration())
			continue
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			resp.Body.Close()
			lastErr = xeterr.Wrap(xeterr.CodeNetworkError, "reading response body", err)
			time.Sleep(b.Duration())
			continue
		}
		return resp, body, nil
	}
	return nil, nil, lastErr
}
