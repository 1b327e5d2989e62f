// Package hfhub implements the Hugging Face Hub collaborator boundary of
// spec §6: token exchange and a download helper wiring token exchange →
// casclient.Client → reconstruct.Engine → an output file, grounded on the
// teacher's identity/handshake boundary layer and generalized here to an
// HTTP token-exchange flow that is explicitly outside the content-addressed
// core.
package hfhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/text/unicode/norm"

	"github.com/xetproto/xetgo/pkg/casclient"
	"github.com/xetproto/xetgo/pkg/reconstruct"
	"github.com/xetproto/xetgo/pkg/xethash"
	"github.com/xetproto/xetgo/pkg/xeterr"
)

// HubTokenEnvVar is the environment variable the download helper reads
// the Hugging Face hub token from. The core itself never reads it; only
// this boundary layer does (spec §6 "Environment").
const HubTokenEnvVar = "HF_TOKEN"

type tokenExchangeResponse struct {
	AccessToken string `json:"accessToken"`
	CASURL      string `json:"casUrl"`
	Exp         int64  `json:"exp"`
}

// ExchangeToken trades a Hugging Face hub token for a short-lived CAS
// access token and CAS base URL (spec §6 "Token-exchange"). repoID and
// revision are NFC-normalized before being embedded in the request path,
// since Hub repo identifiers are not guaranteed to arrive pre-normalized.
func ExchangeToken(ctx context.Context, httpClient *http.Client, repoType, repoID, revision, hubToken string) (accessToken, casURL string, exp int64, err error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	normRepoID := norm.NFC.String(repoID)
	normRevision := norm.NFC.String(revision)

	url := fmt.Sprintf("https://huggingface.co/api/%ss/%s/xet-read-token/%s", repoType, normRepoID, normRevision)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", 0, xeterr.Wrap(xeterr.CodeNetworkError, "building token-exchange request", err)
	}
	req.Header.Set("Authorization", "Bearer "+hubToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", "", 0, xeterr.Wrap(xeterr.CodeNetworkError, "token-exchange request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", "", 0, xeterr.FromHTTPStatus(resp.StatusCode, string(body))
	}

	var wire tokenExchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return "", "", 0, xeterr.Wrap(xeterr.CodeNetworkError, "decoding token-exchange response", err)
	}
	return wire.AccessToken, wire.CASURL, wire.Exp, nil
}

// DownloadOptions configures DownloadFile.
type DownloadOptions struct {
	RepoType string // "model", "dataset", or "space"
	RepoID   string
	Revision string // defaults to "main" if empty
	Filename string // the file's content hash is looked up by the caller
	FileHash xethash.Hash
	HubToken string
	Progress func(completed, total int)
}

// DownloadFile exchanges a hub token for CAS credentials, then
// reconstructs FileHash in full and writes it to out (spec §6/§9).
func DownloadFile(ctx context.Context, opts DownloadOptions, out io.Writer) error {
	revision := opts.Revision
	if revision == "" {
		revision = "main"
	}
	repoType := opts.RepoType
	if repoType == "" {
		repoType = "model"
	}

	hubToken := opts.HubToken
	if hubToken == "" {
		hubToken = os.Getenv(HubTokenEnvVar)
	}

	accessToken, casURL, _, err := ExchangeToken(ctx, nil, repoType, opts.RepoID, revision, hubToken)
	if err != nil {
		return err
	}

	client := casclient.NewClient(casURL, accessToken)
	engine := reconstruct.NewEngine(client, client)

	sink := out
	if opts.Progress != nil {
		sink = &progressWriter{w: out, progress: opts.Progress}
	}
	return engine.ReconstructStream(ctx, opts.FileHash, sink)
}

// progressWriter reports cumulative bytes written after each Write (the
// engine writes once per reconstruction term). The
// total term count is not known to the caller ahead of time, so total is
// reported as -1 (unknown) rather than faked.
type progressWriter struct {
	w        io.Writer
	written  int
	progress func(completed, total int)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += n
	p.progress(p.written, -1)
	return n, err
}
