package meeting

import (
	"context"
	stdErrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intel/pkg/jobcontext"
)

const (
	defaultLanguage   = "English"
	defaultJobTimeout = 15 * time.Minute
	audioURLExpiry    = time.Hour
)

// AIClient is the set of AI agents the meeting flows rely on
type AIClient interface {
	Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error)
	Summarize(ctx context.Context, transcript, language string, prep *entities.PrepContext) (string, error)
	SummarizeWhatsApp(ctx context.Context, transcript, language string) (string, error)
	ResearchParticipant(ctx context.Context, p entities.Participant) (string, error)
	GenerateBrief(ctx context.Context, topic string, research []entities.ParticipantResearch) (*entities.Brief, error)
}

// AudioArchive keeps the original recordings
type AudioArchive interface {
	SaveAudio(ctx context.Context, filename string, data []byte, contentType string) (string, error)
	AudioURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Locker serializes work on one meeting. Lock returns entities.ErrMeetingLocked
// when someone else holds the key.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Owner identifies the authenticated caller, if any
type Owner struct {
	ID    string
	Email string
}

// Options tunes the service
type Options struct {
	// JobTimeout bounds one upload or preparation; the meeting lock lives a little longer
	JobTimeout time.Duration
}

// Service runs the upload pipeline, voice note flow, preparation and history
type Service struct {
	meetings   repositories.MeetingRepository
	ai         AIClient
	archive    AudioArchive
	locker     Locker
	jobTimeout time.Duration
	logger     *zap.Logger
}

// NewService creates a meeting service. archive and locker may be nil.
func NewService(
	meetings repositories.MeetingRepository,
	ai AIClient,
	archive AudioArchive,
	locker Locker,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = defaultJobTimeout
	}
	return &Service{
		meetings:   meetings,
		ai:         ai,
		archive:    archive,
		locker:     locker,
		jobTimeout: opts.JobTimeout,
		logger:     logger,
	}
}

// UploadInput is an uploaded recording
type UploadInput struct {
	Audio        []byte
	Filename     string
	MimeType     string
	Language     string
	Participants []entities.Participant
	// MeetingRef links the recording to a prepared meeting
	MeetingRef string
	Owner      *Owner
}

// UploadResult is the outcome of processing a recording
type UploadResult struct {
	MeetingID    string
	Type         entities.MeetingType
	Filename     string
	Transcript   string
	Summary      string
	Participants []entities.ParticipantResearch
}

// ProcessUpload transcribes, summarizes and researches a meeting recording.
// Persistence failures after the AI calls succeeded are logged and the result is still returned.
func (s *Service) ProcessUpload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if len(in.Audio) == 0 {
		return nil, errors.ErrMissingFile()
	}
	if in.Language == "" {
		in.Language = defaultLanguage
	}

	ctx, cancel := jobcontext.Begin(ctx, "upload", s.jobTimeout)
	defer cancel()
	log := s.jobLogger(ctx)

	existing, err := s.existingMeeting(ctx, in.MeetingRef, in.Owner, log)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		unlock, err := s.lock(ctx, existing)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	audioObject := s.archiveAudio(ctx, in, log)

	if log != nil {
		log.Info("🎙️ Processing meeting recording",
			zap.String("filename", in.Filename),
			zap.String("language", in.Language),
			zap.Int("participants", len(in.Participants)),
		)
	}

	transcript, err := s.ai.Transcribe(ctx, in.Audio, in.MimeType, in.Language)
	if err != nil {
		return nil, err
	}

	summary, err := s.ai.Summarize(ctx, transcript, in.Language, existing.PrepContext())
	if err != nil {
		return nil, err
	}

	stored := s.storedResearch(ctx, existing, log)
	fresh := s.researchMissing(ctx, in.Participants, stored, log)

	result := &UploadResult{
		Type:         entities.MeetingTypeStandard,
		Filename:     in.Filename,
		Transcript:   transcript,
		Summary:      summary,
		Participants: append(append([]entities.ParticipantResearch{}, stored...), fresh...),
	}

	if existing != nil {
		result.MeetingID = existing.Ref()
		completion := entities.MeetingCompletion{
			Filename:        in.Filename,
			MimeType:        in.MimeType,
			Language:        in.Language,
			AudioObject:     audioObject,
			Transcript:      transcript,
			Summary:         summary,
			Type:            entities.MeetingTypeStandard,
			NewParticipants: fresh,
		}
		// an anonymous preparation is claimed by its first signed-in uploader
		if !existing.HasOwner() {
			completion.OwnerID = in.Owner.id()
			completion.OwnerEmail = in.Owner.email()
		}
		_, err := s.meetings.Complete(ctx, existing.ID, completion)
		if stdErrors.Is(err, entities.ErrMeetingCompleted) {
			return nil, errors.ErrMeetingCompleted(existing.Ref())
		}
		if err != nil {
			s.persistenceWarning(log, "complete meeting", err)
		}
		return result, nil
	}

	now := time.Now().UTC()
	m := &entities.Meeting{
		ID:           bson.NewObjectID(),
		OwnerID:      in.Owner.id(),
		OwnerEmail:   in.Owner.email(),
		Filename:     in.Filename,
		MimeType:     in.MimeType,
		Language:     in.Language,
		AudioObject:  audioObject,
		Transcript:   transcript,
		Summary:      summary,
		Type:         entities.MeetingTypeStandard,
		Status:       entities.MeetingStatusCompleted,
		Participants: fresh,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	result.MeetingID = m.Ref()
	if err := s.meetings.Create(ctx, m); err != nil {
		s.persistenceWarning(log, "create meeting", err)
	}
	return result, nil
}

// ProcessWhatsApp transcribes a voice note and produces its short summary
func (s *Service) ProcessWhatsApp(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if len(in.Audio) == 0 {
		return nil, errors.ErrMissingFile()
	}
	if in.Language == "" {
		in.Language = defaultLanguage
	}

	ctx, cancel := jobcontext.Begin(ctx, "whatsapp", s.jobTimeout)
	defer cancel()
	log := s.jobLogger(ctx)

	audioObject := s.archiveAudio(ctx, in, log)

	transcript, err := s.ai.Transcribe(ctx, in.Audio, in.MimeType, in.Language)
	if err != nil {
		return nil, err
	}
	summary, err := s.ai.SummarizeWhatsApp(ctx, transcript, in.Language)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &entities.Meeting{
		ID:          bson.NewObjectID(),
		OwnerID:     in.Owner.id(),
		OwnerEmail:  in.Owner.email(),
		Filename:    in.Filename,
		MimeType:    in.MimeType,
		Language:    in.Language,
		AudioObject: audioObject,
		Transcript:  transcript,
		Summary:     summary,
		Type:        entities.MeetingTypeWhatsApp,
		Status:      entities.MeetingStatusCompleted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.meetings.Create(ctx, m); err != nil {
		s.persistenceWarning(log, "create voice note", err)
	}

	return &UploadResult{
		MeetingID:  m.Ref(),
		Type:       entities.MeetingTypeWhatsApp,
		Filename:   in.Filename,
		Transcript: transcript,
		Summary:    summary,
	}, nil
}

// PrepareInput describes an upcoming meeting
type PrepareInput struct {
	Topic        string
	Participants []entities.Participant
	Owner        *Owner
}

// PrepareResult is the generated brief of an upcoming meeting
type PrepareResult struct {
	MeetingID string
	Brief     *entities.Brief
	Research  []entities.ParticipantResearch
}

// Prepare researches every participant and writes a pre-meeting brief.
// Any research failure fails the whole request.
func (s *Service) Prepare(ctx context.Context, in PrepareInput) (*PrepareResult, error) {
	if in.Topic == "" {
		return nil, errors.ErrMissingTopic()
	}
	if len(in.Participants) == 0 {
		return nil, errors.ErrMissingParticipants()
	}

	ctx, cancel := jobcontext.Begin(ctx, "prepare", s.jobTimeout)
	defer cancel()
	log := s.jobLogger(ctx)

	if log != nil {
		log.Info("📝 Generating meeting brief",
			zap.String("topic", in.Topic),
			zap.Int("participants", len(in.Participants)),
		)
	}

	research, err := s.research(ctx, in.Participants)
	if err != nil {
		return nil, err
	}

	brief, err := s.ai.GenerateBrief(ctx, in.Topic, research)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &entities.Meeting{
		ID:           bson.NewObjectID(),
		OwnerID:      in.Owner.id(),
		OwnerEmail:   in.Owner.email(),
		Type:         entities.MeetingTypePreparation,
		Status:       entities.MeetingStatusPrepared,
		Topic:        in.Topic,
		Brief:        brief,
		Participants: research,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.meetings.Create(ctx, m); err != nil {
		s.persistenceWarning(log, "create prepared meeting", err)
	}

	return &PrepareResult{MeetingID: m.Ref(), Brief: brief, Research: research}, nil
}

// MeetingDetails is a meeting with its participant research
type MeetingDetails struct {
	Meeting      *entities.Meeting
	Participants []entities.ParticipantResearch
	AudioURL     string
}

// GetMeeting loads a meeting by canonical or legacy id
func (s *Service) GetMeeting(ctx context.Context, ref string) (*MeetingDetails, error) {
	m, err := s.meetings.Resolve(ctx, ref)
	if err != nil {
		return nil, storeError(err, ref)
	}

	participants, err := s.meetings.Participants(ctx, m)
	if err != nil {
		return nil, storeError(err, ref)
	}

	details := &MeetingDetails{Meeting: m, Participants: participants}
	if s.archive != nil && m.AudioObject != "" {
		url, err := s.archive.AudioURL(ctx, m.AudioObject, audioURLExpiry)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to sign audio url", zap.String("meeting_id", ref), zap.Error(err))
			}
		} else {
			details.AudioURL = url
		}
	}
	return details, nil
}

// History lists the caller's meetings, newest first
func (s *Service) History(ctx context.Context, owner *Owner) ([]*entities.Meeting, error) {
	if owner == nil || owner.ID == "" {
		return nil, errors.ErrUnauthenticated()
	}
	meetings, err := s.meetings.ListByOwner(ctx, owner.ID, owner.Email)
	if err != nil {
		return nil, storeError(err, "")
	}
	return meetings, nil
}

func (o *Owner) id() string {
	if o == nil {
		return ""
	}
	return o.ID
}

func (o *Owner) email() string {
	if o == nil {
		return ""
	}
	return o.Email
}

func storeError(err error, ref string) error {
	switch {
	case stdErrors.Is(err, entities.ErrMeetingNotFound):
		return errors.ErrMeetingNotFound(ref)
	case stdErrors.Is(err, entities.ErrStoreUnavailable):
		return errors.ErrStoreUnavailable(err)
	default:
		return errors.ErrInternal(err)
	}
}
