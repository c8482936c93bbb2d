package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"advisord/internal/catalog"
)

// ProgressFunc reports download progress. total is -1 when unknown.
type ProgressFunc func(downloaded, total int64)

// Ensure returns the local artifact path for a model, downloading it first
// if it is not already cached. Partial downloads are resumed with a Range
// request.
func (s *Store) Ensure(ctx context.Context, mdl catalog.Model, progress ProgressFunc) (string, error) {
	if p, ok := s.Path(mdl.ID); ok {
		return p, nil
	}
	if mdl.Filename == "" {
		return "", fmt.Errorf("model %q has no artifact filename", mdl.ID)
	}
	final := filepath.Join(s.dir, mdl.Filename)
	if sz := fileSize(final); sz >= 0 {
		// Artifact exists but is not in the manifest (e.g. dropped in by
		// hand); adopt it.
		a := Artifact{ModelID: mdl.ID, Path: final, SizeBytes: sz, DownloadedAt: time.Now(), LastUsed: time.Now()}
		if err := s.commit(a); err != nil {
			return "", err
		}
		return final, nil
	}
	if mdl.Repo == "" {
		return "", fmt.Errorf("model %q is not cached and has no repo to download from", mdl.ID)
	}

	url := resolveURL(mdl)
	tmp := filepath.Join(s.dir, ".partial", mdl.Filename)
	sum, size, err := s.download(ctx, url, tmp, progress)
	if err != nil {
		return "", err
	}
	if err := os.Rename(tmp, final); err != nil {
		return "", fmt.Errorf("commit artifact: %w", err)
	}
	a := Artifact{
		ModelID:      mdl.ID,
		Path:         final,
		SizeBytes:    size,
		Checksum:     sum,
		DownloadedAt: time.Now(),
		LastUsed:     time.Now(),
	}
	if err := s.commit(a); err != nil {
		return "", err
	}
	log.Info().Str("model", mdl.ID).Int64("bytes", size).Msg("artifact downloaded")
	return final, nil
}

// resolveURL builds the Hugging Face resolve URL for a catalog entry.
func resolveURL(mdl catalog.Model) string {
	return fmt.Sprintf("https://huggingface.co/%s/resolve/main/%s", mdl.Repo, mdl.Filename)
}

// download fetches url into dest, resuming from an existing partial file.
// Returns the sha256 of the bytes written in this session and the final size.
func (s *Store) download(ctx context.Context, url, dest string, progress ProgressFunc) (string, int64, error) {
	var offset int64
	if fi, err := os.Stat(dest); err == nil {
		offset = fi.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Server ignored the range; start over.
		offset = 0
	case http.StatusPartialContent:
	default:
		return "", 0, fmt.Errorf("download: unexpected status %s", resp.Status)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if offset > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(dest, flags, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("open partial: %w", err)
	}
	defer f.Close()

	total := int64(-1)
	if resp.ContentLength >= 0 {
		total = offset + resp.ContentLength
	}
	h := sha256.New()
	w := io.MultiWriter(f, h)
	pw := &progressWriter{w: w, done: offset, total: total, fn: progress}
	if _, err := io.Copy(pw, resp.Body); err != nil {
		return "", 0, fmt.Errorf("download body: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", 0, fmt.Errorf("sync: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), fi.Size(), nil
}

type progressWriter struct {
	w     io.Writer
	done  int64
	total int64
	fn    ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done += int64(n)
	if p.fn != nil {
		p.fn(p.done, p.total)
	}
	return n, err
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return fi.Size()
}
