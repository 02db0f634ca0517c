package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	appErrors "github.com/uzacademy/course-platform-api/pkg/errors"
)

const storageAPIBase = "https://storage.bunnycdn.com"

// VideoStore uploads large media to a Bunny-style storage zone and resolves
// CDN URLs through the configured pull zone.
type VideoStore struct {
	zoneName     string
	accessKey    string
	pullZoneHost string
	client       *http.Client
}

// NewVideoStore builds a remote video storage client.
func NewVideoStore(zoneName, accessKey, pullZoneHost string, timeout time.Duration) *VideoStore {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &VideoStore{
		zoneName:     zoneName,
		accessKey:    accessKey,
		pullZoneHost: pullZoneHost,
		client:       &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the storage zone credentials are present.
func (s *VideoStore) Configured() bool {
	return s != nil && s.zoneName != "" && s.accessKey != "" && s.pullZoneHost != ""
}

// Store uploads the stream under folder/filename and returns the CDN URL.
func (s *VideoStore) Store(ctx context.Context, folder, filename string, r io.Reader, size int64) (string, error) {
	if !s.Configured() {
		return "", appErrors.Clone(appErrors.ErrStorageUnavailable, "video storage zone not configured")
	}

	storagePath := filename
	if folder != "" {
		storagePath = folder + "/" + filename
	}
	url := fmt.Sprintf("%s/%s/%s", storageAPIBase, s.zoneName, storagePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, r)
	if err != nil {
		return "", fmt.Errorf("build storage request: %w", err)
	}
	req.Header.Set("AccessKey", s.accessKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrStorageUnavailable.Code, appErrors.ErrStorageUnavailable.Status, "video storage request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", appErrors.Wrap(
			fmt.Errorf("storage responded %d: %s", resp.StatusCode, string(body)),
			appErrors.ErrStorageUnavailable.Code,
			appErrors.ErrStorageUnavailable.Status,
			"video storage rejected upload",
		)
	}

	return s.PublicURL(storagePath), nil
}

// PublicURL resolves a storage path to its CDN URL.
func (s *VideoStore) PublicURL(storagePath string) string {
	return fmt.Sprintf("https://%s/%s", s.pullZoneHost, storagePath)
}
