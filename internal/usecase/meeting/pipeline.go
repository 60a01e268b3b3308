package meeting

import (
	"context"
	stdErrors "errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/pkg/jobcontext"
)

func (s *Service) jobLogger(ctx context.Context) *zap.Logger {
	if s.logger == nil {
		return nil
	}
	meta := jobcontext.GetJobMetadata(ctx)
	return s.logger.With(
		zap.String("job_id", meta.JobID.String()),
		zap.String("job_type", meta.JobType),
	)
}

// existingMeeting loads the prepared meeting a recording belongs to.
// Lookup failures are logged and the upload continues as a new meeting. A meeting
// that already finished processing, or that belongs to someone else, is rejected.
func (s *Service) existingMeeting(ctx context.Context, ref string, owner *Owner, log *zap.Logger) (*entities.Meeting, error) {
	if ref == "" {
		return nil, nil
	}

	m, err := s.meetings.Resolve(ctx, ref)
	if err != nil {
		if log != nil {
			log.Warn("failed to fetch preparation context", zap.String("meeting_ref", ref), zap.Error(err))
		}
		return nil, nil
	}

	if !m.Status.CanAdvanceTo(entities.MeetingStatusCompleted) {
		return nil, errors.ErrMeetingCompleted(m.Ref())
	}
	if m.HasOwner() && !m.OwnedBy(owner.id(), owner.email()) {
		return nil, errors.ErrMeetingForbidden(m.Ref())
	}

	if log != nil && m.Topic != "" {
		log.Info("found preparation context", zap.String("meeting_id", m.Ref()), zap.String("topic", m.Topic))
	}
	return m, nil
}

// lock holds the meeting for the duration of the upload
func (s *Service) lock(ctx context.Context, m *entities.Meeting) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	unlock, err := s.locker.Lock(ctx, "meeting:"+m.ID.Hex(), s.jobTimeout+time.Minute)
	if stdErrors.Is(err, entities.ErrMeetingLocked) {
		return nil, errors.ErrMeetingBusy(m.Ref())
	}
	if err != nil {
		// the conditional completion update still guards the write
		if s.logger != nil {
			s.logger.Warn("meeting lock unavailable", zap.String("meeting_id", m.Ref()), zap.Error(err))
		}
		return func() {}, nil
	}
	return unlock, nil
}

// archiveAudio stores the recording; failures only cost the archive copy
func (s *Service) archiveAudio(ctx context.Context, in UploadInput, log *zap.Logger) string {
	if s.archive == nil {
		return ""
	}
	obj, err := s.archive.SaveAudio(ctx, in.Filename, in.Audio, in.MimeType)
	if err != nil {
		if log != nil {
			log.Warn("failed to archive audio", zap.String("filename", in.Filename), zap.Error(err))
		}
		return ""
	}
	return obj
}

// storedResearch returns research already saved for the meeting, such as from preparation
func (s *Service) storedResearch(ctx context.Context, m *entities.Meeting, log *zap.Logger) []entities.ParticipantResearch {
	if m == nil {
		return nil
	}
	research, err := s.meetings.Participants(ctx, m)
	if err != nil {
		if log != nil {
			log.Warn("failed to load stored research", zap.String("meeting_id", m.Ref()), zap.Error(err))
		}
		return m.Participants
	}
	return research
}

// researchMissing researches participants that have no stored research yet.
// A failed batch is logged and contributes nothing.
func (s *Service) researchMissing(ctx context.Context, participants []entities.Participant, stored []entities.ParticipantResearch, log *zap.Logger) []entities.ParticipantResearch {
	known := make(map[string]bool, len(stored))
	for _, r := range stored {
		known[r.Key()] = true
	}

	var missing []entities.Participant
	for _, p := range participants {
		if known[p.Key()] {
			continue
		}
		known[p.Key()] = true
		missing = append(missing, p)
	}
	if len(missing) == 0 {
		return nil
	}

	research, err := s.research(ctx, missing)
	if err != nil {
		if log != nil {
			log.Warn("participant research failed", zap.Int("participants", len(missing)), zap.Error(err))
		}
		return nil
	}
	return research
}

// research runs one research call per participant in parallel; any failure fails all
func (s *Service) research(ctx context.Context, participants []entities.Participant) ([]entities.ParticipantResearch, error) {
	results := make([]entities.ParticipantResearch, len(participants))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range participants {
		g.Go(func() error {
			info, err := s.ai.ResearchParticipant(gctx, p)
			if err != nil {
				return err
			}
			results[i] = entities.NewParticipantResearch(p, info)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) persistenceWarning(log *zap.Logger, op string, err error) {
	if log == nil {
		return
	}
	log.Warn("persistence.warning", zap.String("operation", op), zap.Error(err))
}
