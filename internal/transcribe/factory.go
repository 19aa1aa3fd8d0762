package transcribe

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/lecturepipe/backend/internal/platform/logger"
)

// Kind selects which Provider backs the Transcriber.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// Config controls which Provider New builds.
type Config struct {
	Kind                 Kind
	LocalBinaryPath      string
	RemoteCredentialsFile string
	RemoteSampleRateHz   int32
}

func New(ctx context.Context, cfg Config, log *logger.Logger) (Provider, error) {
	switch Kind(strings.ToLower(string(cfg.Kind))) {
	case KindLocal:
		if _, err := exec.LookPath(cfg.LocalBinaryPath); err != nil {
			return nil, fmt.Errorf("local transcriber binary %q not available: %w", cfg.LocalBinaryPath, err)
		}
		return NewLocalModel(cfg.LocalBinaryPath, log), nil
	case KindRemote:
		return NewRemoteAPI(ctx, cfg.RemoteCredentialsFile, cfg.RemoteSampleRateHz, log)
	default:
		return nil, fmt.Errorf("unknown transcription provider kind %q", cfg.Kind)
	}
}
