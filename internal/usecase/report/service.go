package report

import (
	"context"
	stdErrors "errors"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	pdfreport "github.com/johnquangdev/meeting-intel/internal/infrastructure/report"
)

// Renderer turns report content into a document
type Renderer interface {
	Render(rep pdfreport.Report) ([]byte, error)
}

// Service exports meetings as PDF reports
type Service struct {
	meetings repositories.MeetingRepository
	renderer Renderer
	logger   *zap.Logger
}

// NewService creates a report service
func NewService(meetings repositories.MeetingRepository, renderer Renderer, logger *zap.Logger) *Service {
	return &Service{meetings: meetings, renderer: renderer, logger: logger}
}

// Document is a rendered report ready for download
type Document struct {
	Filename string
	Content  []byte
}

// RenderReport builds the PDF of a meeting given its canonical or legacy id
func (s *Service) RenderReport(ctx context.Context, ref string) (*Document, error) {
	m, err := s.meetings.Resolve(ctx, ref)
	if err != nil {
		switch {
		case stdErrors.Is(err, entities.ErrMeetingNotFound):
			return nil, errors.ErrMeetingNotFound(ref)
		case stdErrors.Is(err, entities.ErrStoreUnavailable):
			return nil, errors.ErrStoreUnavailable(err)
		default:
			return nil, errors.ErrReportGenerationFailed(err)
		}
	}

	participants, err := s.meetings.Participants(ctx, m)
	if err != nil {
		// the report is still useful without the participant page
		if s.logger != nil {
			s.logger.Warn("failed to load participants for report", zap.String("meeting_id", ref), zap.Error(err))
		}
		participants = nil
	}

	content, err := s.renderer.Render(pdfreport.Report{
		MeetingID:    ref,
		Filename:     m.Filename,
		Date:         m.CreatedTime(),
		Summary:      m.Summary,
		Transcript:   m.Transcript,
		Participants: participants,
	})
	if err != nil {
		return nil, errors.ErrReportGenerationFailed(err)
	}

	if s.logger != nil {
		s.logger.Info("report generated",
			zap.String("meeting_id", ref),
			zap.Int("participants", len(participants)),
			zap.Int("bytes", len(content)),
		)
	}
	return &Document{Filename: pdfreport.Filename(ref), Content: content}, nil
}
