package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/lecturepipe/backend/internal/platform/logger"
)

// remoteAPIMaxBytes is the Google Cloud Speech synchronous Recognize
// request content limit; audio above this must go through the Chunker
// first, per spec.md §4.4's RemoteAPI file-size-limit clause.
const remoteAPIMaxBytes = 10 * 1024 * 1024

type RemoteAPI struct {
	log        *logger.Logger
	client     *speech.Client
	sampleRate int32
}

func NewRemoteAPI(ctx context.Context, credentialsFile string, sampleRateHz int32, baseLog *logger.Logger) (*RemoteAPI, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	if sampleRateHz <= 0 {
		sampleRateHz = 16000
	}
	return &RemoteAPI{
		log:        baseLog.With("component", "RemoteAPITranscriber"),
		client:     client,
		sampleRate: sampleRateHz,
	}, nil
}

func (r *RemoteAPI) Close() error { return r.client.Close() }

func (r *RemoteAPI) MaxFileSizeBytes() int64 { return remoteAPIMaxBytes }

func (r *RemoteAPI) Transcribe(ctx context.Context, audioPath, language string, isChunk bool) (string, error) {
	content, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	if int64(len(content)) > remoteAPIMaxBytes {
		return "", fmt.Errorf("audio exceeds remote API limit of %d bytes", remoteAPIMaxBytes)
	}
	if language == "" {
		language = "en-US"
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: r.sampleRate,
			LanguageCode:    language,
			Model:           "latest_long",
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: content},
		},
	}

	resp, err := r.client.Recognize(ctx, req)
	if err != nil {
		return "", withStatusCode(err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		parts = append(parts, result.Alternatives[0].Transcript)
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}
