package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/lecturepipe/backend/internal/platform/logger"
)

// Wall-clock timeouts per spec.md §(Cancellation): 30 min for a whole
// uncut audio file, 5 min for a single chunk.
const (
	wholeFileTimeout = 30 * time.Minute
	chunkTimeout     = 5 * time.Minute
)

// LocalModel wraps a single-process local transcription binary (e.g. a
// whisper.cpp build) invoked via exec. The model is not reentrant — it
// holds GPU/accelerator state — so calls are serialized with a mutex,
// mirroring the single-process constraint of the provider this is
// grounded on.
type LocalModel struct {
	mu               sync.Mutex
	log              *logger.Logger
	binPath          string
	wholeFileTimeout time.Duration
	chunkTimeout     time.Duration
}

func NewLocalModel(binPath string, baseLog *logger.Logger) *LocalModel {
	return &LocalModel{
		log:              baseLog.With("component", "LocalModelTranscriber"),
		binPath:          binPath,
		wholeFileTimeout: wholeFileTimeout,
		chunkTimeout:     chunkTimeout,
	}
}

func (m *LocalModel) MaxFileSizeBytes() int64 { return 0 }

func (m *LocalModel) Transcribe(ctx context.Context, audioPath, language string, isChunk bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	timeout := m.wholeFileTimeout
	if isChunk {
		timeout = m.chunkTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"--file", audioPath, "--output-format", "text"}
	if language != "" {
		args = append(args, "--language", language)
	}

	cmd := exec.CommandContext(ctx, m.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("local transcriber failed: %w; stderr=%s", err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}
