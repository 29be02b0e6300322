package stt

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/repositories"
)

const defaultLanguage = "en-AU"

// GoogleSpeechToText implements SpeechToText for Google Cloud. Used for
// one-shot pronunciation-practice clips, not streaming conversation.
type GoogleSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a new Google Cloud speech adapter. Credentials
// come from the ambient GOOGLE_APPLICATION_CREDENTIALS environment.
func NewGoogleSpeechToText(logger *zap.Logger) *GoogleSpeechToText {
	return &GoogleSpeechToText{logger: logger}
}

// TranscribeAudio implements repositories.SpeechToText
func (g *GoogleSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (repositories.Transcription, error) {
	if len(audioData) == 0 {
		return repositories.Transcription{}, fmt.Errorf("no audio data received")
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return repositories.Transcription{}, fmt.Errorf("failed to create speech client: %w", err)
	}
	defer client.Close()

	encoding, err := audioEncoding(config.Encoding)
	if err != nil {
		return repositories.Transcription{}, err
	}

	language := config.Language
	if language == "" {
		language = defaultLanguage
	}

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        encoding,
			SampleRateHertz: int32(config.SampleRate),
			LanguageCode:    language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		return repositories.Transcription{}, fmt.Errorf("recognition failed: %w", err)
	}

	// Take the best alternative across results.
	var best repositories.Transcription
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		if best.Text == "" || alt.Confidence > best.Confidence {
			best = repositories.Transcription{
				Text:       alt.Transcript,
				Confidence: alt.Confidence,
			}
		}
	}
	if best.Text == "" {
		return repositories.Transcription{}, fmt.Errorf("no speech detected in audio")
	}

	g.logger.Debug("Transcription completed",
		zap.Float32("confidence", best.Confidence))
	return best, nil
}

func audioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch encoding {
	case "", "linear16", "LINEAR16", "pcm":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "flac", "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "mulaw", "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "ogg_opus", "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "webm_opus", "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported audio encoding: %s", encoding)
	}
}
