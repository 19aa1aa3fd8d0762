// Package fetcher implements the Media Fetcher: turning a YouTube URL into
// a downloaded audio file and a persisted Video row.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"golang.org/x/sync/semaphore"

	"github.com/lecturepipe/backend/internal/domain"
	"github.com/lecturepipe/backend/internal/platform/localmedia"
	"github.com/lecturepipe/backend/internal/platform/logger"
	"github.com/lecturepipe/backend/internal/store"
)

// videoIDPattern matches the 11-character id out of any of the accepted
// YouTube URL forms: watch?v=, /v/, /vi/, youtu.be/, shorts/, embed/.
var videoIDPattern = regexp.MustCompile(`(?:v=|vi=|v/|vi/|youtu\.be/|shorts/|embed/)([0-9A-Za-z_-]{11})`)

// ParseVideoID extracts the 11-character YouTube video id from url, or
// returns domain.ErrInvalidURL if url is not a recognized YouTube form.
func ParseVideoID(url string) (string, error) {
	if url == "" {
		return "", domain.ErrInvalidURL
	}
	match := videoIDPattern.FindStringSubmatch(url)
	if match == nil {
		return "", domain.ErrInvalidURL
	}
	return match[1], nil
}

type Result struct {
	Video      *domain.Video
	AlreadyExisted bool
}

type Fetcher struct {
	store      *store.Store
	tools      localmedia.Tools
	log        *logger.Logger
	storageDir string
	limiter    *semaphore.Weighted
}

func New(st *store.Store, tools localmedia.Tools, baseLog *logger.Logger, storageDir string, maxConcurrent int64) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Fetcher{
		store:      st,
		tools:      tools,
		log:        baseLog.With("component", "Fetcher"),
		storageDir: storageDir,
		limiter:    semaphore.NewWeighted(maxConcurrent),
	}
}

// Fetch downloads url's audio with yt-dlp and persists a Video row. If the
// video already exists it returns the existing row with AlreadyExisted set,
// without re-downloading.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	videoID, err := ParseVideoID(url)
	if err != nil {
		return nil, err
	}

	existing, err := f.store.Video.GetByExternalID(ctx, videoID)
	if err == nil {
		return &Result{Video: existing, AlreadyExisted: true}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := f.limiter.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire fetch slot: %w", err)
	}
	defer f.limiter.Release(1)

	outDir := filepath.Join(f.storageDir, "audio")
	dl, err := f.tools.DownloadAudio(ctx, url, outDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteFailure, err)
	}

	v, err := f.store.Video.Insert(ctx, videoID, dl.Title, dl.ThumbnailURL, dl.AudioPath)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			existing, getErr := f.store.Video.GetByExternalID(ctx, videoID)
			if getErr != nil {
				return nil, getErr
			}
			return &Result{Video: existing, AlreadyExisted: true}, nil
		}
		return nil, err
	}

	return &Result{Video: v}, nil
}
