// Package localmedia wraps the system binaries the pipeline shells out to:
// yt-dlp for video acquisition, ffprobe for media introspection, and ffmpeg
// for silence detection and segment extraction. All calls are synchronous
// and meant to be called from pipeline-run goroutines, not request handlers
// directly.
package localmedia

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lecturepipe/backend/internal/platform/ctxutil"
	"github.com/lecturepipe/backend/internal/platform/logger"
)

// SilenceInterval is one silent span detected in an audio stream, in
// milliseconds from the start of the file.
type SilenceInterval struct {
	StartMS int64
	EndMS   int64
}

// DownloadResult is everything the pipeline needs to persist after a
// successful yt-dlp invocation.
type DownloadResult struct {
	AudioPath    string
	Title        string
	ThumbnailURL string
	DurationMS   int64
}

type Tools interface {
	AssertReady(ctx context.Context) error

	// DownloadAudio runs yt-dlp against videoURL, extracting best-effort
	// audio into outDir. The file is named by yt-dlp's id template so the
	// caller can move/rename it deterministically afterward.
	DownloadAudio(ctx context.Context, videoURL, outDir string) (*DownloadResult, error)

	// ProbeAudio reports duration, sample rate and channel count via ffprobe.
	ProbeAudio(ctx context.Context, audioPath string) (duration time.Duration, sampleRateHz int, channels int, err error)

	// DetectSilences runs ffmpeg's silencedetect filter and returns the
	// silent intervals found, for use as chunk-boundary candidates.
	DetectSilences(ctx context.Context, audioPath string, noiseFloorDB float64, minDuration time.Duration) ([]SilenceInterval, error)

	// ExtractSegment stream-copies [startMS, endMS) of audioPath into outPath
	// without re-encoding.
	ExtractSegment(ctx context.Context, audioPath, outPath string, startMS, endMS int64) error
}

// Wall-clock timeouts per spec.md §(Cancellation): 30 min per whole audio
// file (download, whole-file silence detection), 5 min per chunk (segment
// extraction). ProbeAudio uses its own fixed 30-second bound.
const (
	perFileTimeout  = 30 * time.Minute
	perChunkTimeout = 5 * time.Minute
)

type tools struct {
	log *logger.Logger

	ytDlpPath  string
	ffmpegPath string
	ffprobePath string

	workRoot        string
	perFileTimeout  time.Duration
	perChunkTimeout time.Duration
}

func New(log *logger.Logger) Tools {
	slog := log.With("service", "MediaTools")
	return &tools{
		log:             slog,
		ytDlpPath:       "yt-dlp",
		ffmpegPath:      "ffmpeg",
		ffprobePath:     "ffprobe",
		workRoot:        "/tmp/lecturepipe-media",
		perFileTimeout:  perFileTimeout,
		perChunkTimeout: perChunkTimeout,
	}
}

func (m *tools) AssertReady(ctx context.Context) error {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, bin := range []string{m.ytDlpPath, m.ffmpegPath, m.ffprobePath} {
		if err := m.assertBinary(ctx, bin); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return fmt.Errorf("create workRoot: %w", err)
	}
	return nil
}

func (m *tools) assertBinary(ctx context.Context, name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", name, err)
	}
	return nil
}

type ytDlpInfoJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    float64 `json:"duration"`
	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`
}

func (m *tools) DownloadAudio(ctx context.Context, videoURL, outDir string) (*DownloadResult, error) {
	ctx = ctxutil.Default(ctx)
	if err := m.AssertReady(ctx); err != nil {
		return nil, err
	}
	if videoURL == "" {
		return nil, fmt.Errorf("videoURL required")
	}
	if outDir == "" {
		return nil, fmt.Errorf("outDir required")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir outDir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.perFileTimeout)
	defer cancel()

	outTemplate := filepath.Join(outDir, "%(id)s.%(ext)s")
	cmd := exec.CommandContext(ctx, m.ytDlpPath,
		"-x", "--audio-format", "wav",
		"--print-json",
		"--no-playlist",
		"-o", outTemplate,
		videoURL,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp download failed: %w", err)
	}

	line := lastNonEmptyLine(string(out))
	var info ytDlpInfoJSON
	if err := json.Unmarshal([]byte(line), &info); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	audioPath := filepath.Join(outDir, info.ID+".wav")
	if _, statErr := os.Stat(audioPath); statErr != nil {
		return nil, fmt.Errorf("expected audio output missing at %s", audioPath)
	}

	return &DownloadResult{
		AudioPath:    audioPath,
		Title:        info.Title,
		ThumbnailURL: info.Thumbnail,
		DurationMS:   int64(info.Duration * 1000),
	}, nil
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

type ffprobeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

func (m *tools) ProbeAudio(ctx context.Context, audioPath string) (time.Duration, int, int, error) {
	ctx = ctxutil.Default(ctx)
	if audioPath == "" {
		return 0, 0, 0, fmt.Errorf("audioPath required")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		audioPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var parsed ffprobeFormat
	if err := json.Unmarshal(out, &parsed); err != nil {
		return 0, 0, 0, fmt.Errorf("parse ffprobe output: %w", err)
	}

	durationSec, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse duration: %w", err)
	}
	duration := time.Duration(durationSec * float64(time.Second))

	sampleRate, channels := 0, 0
	for _, s := range parsed.Streams {
		if s.CodecType == "audio" {
			sampleRate, _ = strconv.Atoi(s.SampleRate)
			channels = s.Channels
			break
		}
	}

	return duration, sampleRate, channels, nil
}

var silenceStartRe = regexp.MustCompile(`silence_start:\s*([\d.]+)`)
var silenceEndRe = regexp.MustCompile(`silence_end:\s*([\d.]+)`)

// DetectSilences streams ffmpeg's silencedetect log from stderr, pairing
// silence_start/silence_end markers into intervals. A trailing open
// silence_start (silence runs to EOF) is closed at the source's reported
// duration.
func (m *tools) DetectSilences(ctx context.Context, audioPath string, noiseFloorDB float64, minDuration time.Duration) ([]SilenceInterval, error) {
	ctx = ctxutil.Default(ctx)
	if audioPath == "" {
		return nil, fmt.Errorf("audioPath required")
	}

	duration, _, _, err := m.ProbeAudio(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.perFileTimeout)
	defer cancel()

	minDurSec := minDuration.Seconds()
	filter := fmt.Sprintf("silencedetect=noise=%0.1fdB:d=%0.3f", noiseFloorDB, minDurSec)
	cmd := exec.CommandContext(ctx, m.ffmpegPath, "-i", audioPath, "-af", filter, "-f", "null", "-")

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("attach stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	var intervals []SilenceInterval
	var openStart float64
	open := false

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		if match := silenceStartRe.FindStringSubmatch(line); match != nil {
			if sec, perr := strconv.ParseFloat(match[1], 64); perr == nil {
				openStart = sec
				open = true
			}
		}
		if match := silenceEndRe.FindStringSubmatch(line); match != nil {
			if sec, perr := strconv.ParseFloat(match[1], 64); perr == nil && open {
				intervals = append(intervals, SilenceInterval{
					StartMS: int64(openStart * 1000),
					EndMS:   int64(sec * 1000),
				})
				open = false
			}
		}
	}

	waitErr := cmd.Wait()
	if waitErr != nil {
		return nil, fmt.Errorf("ffmpeg silencedetect failed: %w", waitErr)
	}

	if open {
		intervals = append(intervals, SilenceInterval{
			StartMS: int64(openStart * 1000),
			EndMS:   duration.Milliseconds(),
		})
	}

	return intervals, nil
}

func (m *tools) ExtractSegment(ctx context.Context, audioPath, outPath string, startMS, endMS int64) error {
	ctx = ctxutil.Default(ctx)
	if audioPath == "" || outPath == "" {
		return fmt.Errorf("audioPath and outPath required")
	}
	if endMS <= startMS {
		return fmt.Errorf("endMS must be greater than startMS")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir outPath dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.perChunkTimeout)
	defer cancel()

	startSec := float64(startMS) / 1000.0
	durSec := float64(endMS-startMS) / 1000.0

	cmd := exec.CommandContext(ctx, m.ffmpegPath,
		"-y",
		"-ss", strconv.FormatFloat(startSec, 'f', 3, 64),
		"-i", audioPath,
		"-t", strconv.FormatFloat(durSec, 'f', 3, 64),
		"-c", "copy",
		outPath,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract segment failed: %w; out=%s", err, string(out))
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("segment output missing at %s", outPath)
	}
	return nil
}
