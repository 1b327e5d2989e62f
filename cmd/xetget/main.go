// Command xetget downloads one content-addressed file from a Hugging Face
// Hub-backed CAS repository: xetget <repo_id> <file_hash_hex> [--revision r]
// [--out path] [--repo-type type]. Hub's filename → file-hash directory
// listing is outside this spec's scope (§6 only defines the token-exchange
// and reconstruction endpoints keyed by file hash), so the file-hash
// argument stands in for it here; a full Hub client would resolve a path
// to this value first.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/xetproto/xetgo/pkg/hfhub"
	"github.com/xetproto/xetgo/pkg/xethash"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: xetget <repo_id> <file_hash_hex> [--revision r] [--out path] [--repo-type type]")
}

func run(args []string) error {
	if len(args) < 2 {
		printUsage()
		return fmt.Errorf("missing required arguments")
	}

	repoID := args[0]
	fileHashHex := args[1]
	revision := "main"
	outPath := ""
	repoType := "model"

	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--revision":
			if i+1 >= len(rest) {
				return fmt.Errorf("--revision requires a value")
			}
			i++
			revision = rest[i]
		case "--out":
			if i+1 >= len(rest) {
				return fmt.Errorf("--out requires a value")
			}
			i++
			outPath = rest[i]
		case "--repo-type":
			if i+1 >= len(rest) {
				return fmt.Errorf("--repo-type requires a value")
			}
			i++
			repoType = rest[i]
		default:
			printUsage()
			return fmt.Errorf("unrecognized argument %q", rest[i])
		}
	}

	fileHash, err := xethash.FromAPIHex(fileHashHex)
	if err != nil {
		return fmt.Errorf("parsing file hash: %w", err)
	}

	dest := outPath
	if dest == "" {
		dest = fileHash.String()
	}

	correlationID := uuid.New().String()
	start := time.Now()
	fmt.Fprintf(os.Stderr, "[%s] fetching %s@%s (hash %s) -> %s\n", correlationID, repoID, revision, fileHash, dest)

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	opts := hfhub.DownloadOptions{
		RepoType: repoType,
		RepoID:   repoID,
		Revision: revision,
		FileHash: fileHash,
		Progress: func(completed, total int) {
			fmt.Fprintf(os.Stderr, "[%s] %s written\n", correlationID, humanize.Bytes(uint64(completed)))
		},
	}

	ctx := context.Background()
	if err := hfhub.DownloadFile(ctx, opts, f); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "[%s] done in %s\n", correlationID, time.Since(start).Round(time.Millisecond))
	return nil
}
