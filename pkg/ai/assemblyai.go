package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/pkg/config"
	"github.com/johnquangdev/meeting-intel/pkg/jobcontext"
)

// ErrEmptyAudio is returned when there is nothing to transcribe
var ErrEmptyAudio = errors.New("empty audio")

// languageCodes maps the language names accepted by the upload form to provider codes
var languageCodes = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"español":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"catalan":    "ca",
	"vietnamese": "vi",
	"japanese":   "ja",
	"chinese":    "zh",
	"korean":     "ko",
	"hindi":      "hi",
	"russian":    "ru",
	"polish":     "pl",
	"turkish":    "tr",
	"ukrainian":  "uk",
}

// LanguageCode resolves a language name or code; ok is false when unknown
func LanguageCode(language string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(language))
	if l == "" {
		return "", false
	}
	if code, ok := languageCodes[l]; ok {
		return code, true
	}
	for _, code := range languageCodes {
		if l == code {
			return code, true
		}
	}
	return "", false
}

// AssemblyAIClient transcribes uploaded audio through the AssemblyAI SDK
type AssemblyAIClient struct {
	client *aai.Client
	policy jobcontext.Policy
	logger *zap.Logger
}

// NewAssemblyAIClient creates an AssemblyAI client from config
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig, aiCfg *config.AIConfig, logger *zap.Logger) *AssemblyAIClient {
	opts := []aai.ClientOption{
		aai.WithAPIKey(cfg.APIKey),
		aai.WithHTTPClient(&http.Client{Timeout: aiCfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, aai.WithBaseURL(cfg.BaseURL))
	}
	return &AssemblyAIClient{
		client: aai.NewClientWithOptions(opts...),
		policy: jobcontext.Policy{Timeout: aiCfg.Timeout, MaxRetries: aiCfg.MaxRetries},
		logger: logger,
	}
}

// TranscriptParams builds the request options for a language name.
// Unknown languages fall back to automatic detection.
func TranscriptParams(language string) *aai.TranscriptOptionalParams {
	params := &aai.TranscriptOptionalParams{
		Punctuate:  aai.Bool(true),
		FormatText: aai.Bool(true),
	}
	if code, ok := LanguageCode(language); ok {
		params.LanguageCode = aai.TranscriptLanguageCode(code)
	} else {
		params.LanguageDetection = aai.Bool(true)
	}
	return params
}

// Transcribe uploads audio and waits for the transcript text
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	params := TranscriptParams(language)

	var text string
	err := jobcontext.Retry(ctx, c.policy, func(ctx context.Context) error {
		if c.logger != nil {
			c.logger.Info("🎙️ Starting transcription",
				zap.String("language", language),
				zap.String("mime_type", mimeType),
				zap.Int("bytes", len(audio)),
				zap.Int("attempt", jobcontext.GetRetryAttempt(ctx)),
			)
		}

		transcript, err := c.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(audio), params)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("AssemblyAI transcription attempt failed", zap.Error(err))
			}
			return err
		}
		if transcript.Status == aai.TranscriptStatusError {
			// the provider rejected the audio itself; another attempt will not help
			return fmt.Errorf("transcription failed: %s", deref(transcript.Error))
		}

		text = deref(transcript.Text)
		if c.logger != nil {
			c.logger.Info("✅ Transcription complete",
				zap.String("transcript_id", deref(transcript.ID)),
				zap.Int("chars", len(text)),
			)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
