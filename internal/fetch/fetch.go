// Package fetch downloads the published REE "Capacidad de Acceso" zip archive
// and extracts the demand CSV from it.
package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client downloads capacity dataset archives over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a dataset download client.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Download fetches the zip archive at url, extracts every CSV member into
// destDir, and returns the path of the extracted CSV. Archives with several
// CSV members return the first one in archive order; archives with none are
// an error.
func (c *Client) Download(ctx context.Context, url, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dataset download failed: status %d", resp.StatusCode)
	}

	// The archives are a few MB; buffering keeps extraction simple.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read archive body: %w", err)
	}
	c.logger.Info("archive downloaded", "url", url, "bytes", len(body))

	return c.extract(body, destDir)
}

func (c *Client) extract(archive []byte, destDir string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", fmt.Errorf("open zip archive: %w", err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", destDir, err)
	}

	var first string
	for _, member := range zr.File {
		if !strings.EqualFold(filepath.Ext(member.Name), ".csv") {
			continue
		}
		dest := filepath.Join(destDir, filepath.Base(member.Name))
		if err := extractMember(member, dest); err != nil {
			return "", err
		}
		c.logger.Info("csv extracted", "name", member.Name, "path", dest)
		if first == "" {
			first = dest
		}
	}
	if first == "" {
		return "", fmt.Errorf("archive contains no CSV member")
	}
	return first, nil
}

func extractMember(member *zip.File, dest string) error {
	r, err := member.Open()
	if err != nil {
		return fmt.Errorf("open archive member %s: %w", member.Name, err)
	}
	defer r.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("extract %s: %w", member.Name, err)
	}
	return f.Close()
}
