package pipeline

import (
	"context"

	"github.com/lecturepipe/backend/internal/fetcher"
)

// DownloadResult is the per-item payload for a batch download.
type DownloadResult struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title,omitempty"`
}

const (
	StatusSuccess   = "success"
	StatusDuplicate = "duplicate"
	StatusFailed    = "failed"
)

// RunDownloads fetches each URL sequentially, mapping Media Fetcher
// outcomes to the Download status enumeration from spec.md §4.7:
// success | duplicate | failed.
func RunDownloads(ctx context.Context, f *fetcher.Fetcher, urls []string) BatchResult[DownloadResult] {
	return Run(ctx, urls, func(ctx context.Context, url string) (string, DownloadResult, error) {
		result, err := f.Fetch(ctx, url)
		if err != nil {
			return StatusFailed, DownloadResult{}, err
		}
		data := DownloadResult{ExternalID: result.Video.ExternalID, Title: result.Video.Title}
		if result.AlreadyExisted {
			return StatusDuplicate, data, nil
		}
		return StatusSuccess, data, nil
	})
}
