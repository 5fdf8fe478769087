// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package covers downloads cover images into the data directory. Cover
// acquisition is best effort: any failure leaves the book without a cover
// and never fails the enclosing resolution.
package covers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const coversDir = "covers"

// Fetcher downloads covers relative to a base data directory.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	DataDir   string
}

// New returns a Fetcher storing covers under dataDir/covers.
func New(client *http.Client, userAgent, dataDir string) *Fetcher {
	return &Fetcher{Client: client, UserAgent: userAgent, DataDir: dataDir}
}

// Fetch downloads the image at url and returns the stored path relative to
// the data directory, e.g. "covers/ab12cd34ef56.jpg". An empty url or any
// download failure returns an empty path and the error for logging.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", nil
	}

	relPath := filepath.Join(coversDir, slug(url)+extension(url))
	destPath := filepath.Join(f.DataDir, relPath)
	if _, err := os.Stat(destPath); err == nil {
		return relPath, nil
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("creating covers directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".cover-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing cover: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return relPath, nil
}

func slug(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:6])
}

func extension(url string) string {
	ext := strings.ToLower(filepath.Ext(url))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	return ".jpg"
}
