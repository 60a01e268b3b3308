package ai

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/pkg/jobcontext"
)

// Transcriber turns recorded audio into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error)
}

// Completer sends a prompt to a text model and returns its answer
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Service runs the AI agents used by the meeting flows
type Service struct {
	transcriber Transcriber
	completer   Completer
	parser      *Parser
	logger      *zap.Logger
}

// NewService constructs a new AI service
func NewService(transcriber Transcriber, completer Completer, logger *zap.Logger) *Service {
	return &Service{
		transcriber: transcriber,
		completer:   completer,
		parser:      NewParser(),
		logger:      logger,
	}
}

// Transcribe converts an audio file to text in the requested language
func (s *Service) Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	text, err := s.transcriber.Transcribe(ctx, audio, mimeType, language)
	if err != nil {
		if isTimeout(err) {
			return "", errors.ErrUpstreamTimeout("Transcription service", err)
		}
		return "", errors.ErrTranscriptionFailed(err)
	}
	return text, nil
}

// Summarize produces the structured JSON summary of a meeting transcript.
// The returned string is the model's JSON document with markdown fences removed.
func (s *Service) Summarize(ctx context.Context, transcript, language string, prep *entities.PrepContext) (string, error) {
	out, err := s.completer.Complete(ctx, systemPrompt, summaryPrompt(transcript, language, prep))
	if err != nil {
		if isTimeout(err) {
			return "", errors.ErrUpstreamTimeout("Summarization service", err)
		}
		return "", errors.ErrSummaryFailed(err)
	}

	summary := s.parser.CleanJSON(out)
	if _, err := entities.ParseSummary(summary); err != nil && s.logger != nil {
		// stored verbatim anyway; the report falls back to raw text
		s.logger.Warn("summary is not valid JSON", zap.Error(err))
	}
	return summary, nil
}

// SummarizeWhatsApp produces the short summary of a voice note
func (s *Service) SummarizeWhatsApp(ctx context.Context, transcript, language string) (string, error) {
	out, err := s.completer.Complete(ctx, systemPrompt, whatsAppPrompt(transcript, language))
	if err != nil {
		if isTimeout(err) {
			return "", errors.ErrUpstreamTimeout("Summarization service", err)
		}
		return "", errors.ErrSummaryFailed(err)
	}
	return s.parser.CleanJSON(out), nil
}

// ResearchParticipant gathers professional background on a participant.
// Provider failures yield entities.ResearchNotFound; only running out of time is an error.
func (s *Service) ResearchParticipant(ctx context.Context, p entities.Participant) (string, error) {
	out, err := s.completer.Complete(ctx, researchSystemPrompt, researchPrompt(p))
	if err != nil {
		if isTimeout(err) {
			return "", errors.ErrUpstreamTimeout("Research service", err)
		}
		if s.logger != nil {
			s.logger.Warn("participant research failed",
				zap.String("participant", p.Name),
				zap.Error(err),
			)
		}
		return entities.ResearchNotFound, nil
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return entities.ResearchNotFound, nil
	}
	return out, nil
}

// GenerateBrief writes the pre-meeting brief from the topic and participant research
func (s *Service) GenerateBrief(ctx context.Context, topic string, research []entities.ParticipantResearch) (*entities.Brief, error) {
	out, err := s.completer.Complete(ctx, systemPrompt, briefPrompt(topic, research))
	if err != nil {
		if isTimeout(err) {
			return nil, errors.ErrUpstreamTimeout("Preparation service", err)
		}
		return nil, errors.ErrResearchFailed(err)
	}

	brief, err := s.parser.ParseBrief(out)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to parse brief", zap.String("raw", out), zap.Error(err))
		}
		return nil, errors.ErrResearchFailed(fmt.Errorf("failed to parse AI response: %w", err))
	}
	return brief, nil
}

func isTimeout(err error) bool {
	return stdErrors.Is(err, jobcontext.ErrTimeout) || stdErrors.Is(err, context.DeadlineExceeded)
}
