package meeting

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/johnquangdev/meeting-intel/errors"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/pkg/jobcontext"
)

type fakeRepo struct {
	mu          sync.Mutex
	meetings    map[string]*entities.Meeting
	calls       int
	createErr   error
	resolveErr  error
	listErr     error
	completions []entities.MeetingCompletion
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{meetings: map[string]*entities.Meeting{}}
}

func (r *fakeRepo) Create(ctx context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	r.meetings[m.ID.Hex()] = m
	return nil
}

func (r *fakeRepo) Resolve(ctx context.Context, ref string) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.resolveErr != nil {
		return nil, r.resolveErr
	}
	if m, ok := r.meetings[ref]; ok {
		return m, nil
	}
	for _, m := range r.meetings {
		if m.LegacyID != "" && m.LegacyID == ref {
			return m, nil
		}
	}
	return nil, entities.ErrMeetingNotFound
}

func (r *fakeRepo) Complete(ctx context.Context, id bson.ObjectID, c entities.MeetingCompletion) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	m, ok := r.meetings[id.Hex()]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	if !m.Status.CanAdvanceTo(entities.MeetingStatusCompleted) {
		return nil, entities.ErrMeetingCompleted
	}
	r.completions = append(r.completions, c)
	m.Transcript, m.Summary, m.Status = c.Transcript, c.Summary, entities.MeetingStatusCompleted
	if !m.HasOwner() {
		m.OwnerID, m.OwnerEmail = c.OwnerID, c.OwnerEmail
	}
	m.Participants = append(m.Participants, c.NewParticipants...)
	return m, nil
}

func (r *fakeRepo) ListByOwner(ctx context.Context, ownerID, ownerEmail string) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*entities.Meeting
	for _, m := range r.meetings {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeRepo) Participants(ctx context.Context, m *entities.Meeting) ([]entities.ParticipantResearch, error) {
	return m.Participants, nil
}

type fakeAI struct {
	mu            sync.Mutex
	transcribeErr error
	researchErr   error
	researched    []string
	prep          *entities.PrepContext
	transcribed   int
}

func (f *fakeAI) Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transcribed++
	if f.transcribeErr != nil {
		return "", f.transcribeErr
	}
	return "Ana: we approve the budget.", nil
}

func (f *fakeAI) Summarize(ctx context.Context, transcript, language string, prep *entities.PrepContext) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prep = prep
	return `{"outcomes":["Budget approved"]}`, nil
}

func (f *fakeAI) SummarizeWhatsApp(ctx context.Context, transcript, language string) (string, error) {
	return `{"summary":"call back","immediateActions":["call"]}`, nil
}

func (f *fakeAI) ResearchParticipant(ctx context.Context, p entities.Participant) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.researched = append(f.researched, p.Name)
	if f.researchErr != nil {
		return "", f.researchErr
	}
	return fmt.Sprintf("**Name**: %s", p.Name), nil
}

func (f *fakeAI) GenerateBrief(ctx context.Context, topic string, research []entities.ParticipantResearch) (*entities.Brief, error) {
	return &entities.Brief{Brief: "about " + topic, TalkingPoints: []string{"tp"}, Questions: []string{"q"}}, nil
}

type fakeLocker struct {
	held map[string]bool
}

func (l *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l.held[key] {
		return nil, entities.ErrMeetingLocked
	}
	l.held[key] = true
	return func() { delete(l.held, key) }, nil
}

type fakeArchive struct {
	saved []string
	err   error
}

func (a *fakeArchive) SaveAudio(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.saved = append(a.saved, filename)
	return "audio/" + filename, nil
}

func (a *fakeArchive) AudioURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	return "https://archive.local/" + objectName, nil
}

func newTestService(repo *fakeRepo, ai *fakeAI) (*Service, *fakeLocker, *fakeArchive) {
	locker := &fakeLocker{held: map[string]bool{}}
	archive := &fakeArchive{}
	return NewService(repo, ai, archive, locker, Options{JobTimeout: time.Minute}, nil), locker, archive
}

func requireAppError(t *testing.T, err error, status int) errors.AppError {
	t.Helper()
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.HTTPCode != status {
		t.Fatalf("expected status %d, got %d (%s)", status, appErr.HTTPCode, appErr.Message)
	}
	return appErr
}

func audioInput() UploadInput {
	return UploadInput{
		Audio:    []byte("RIFF....WAVE"),
		Filename: "standup.wav",
		MimeType: "audio/wav",
		Owner:    &Owner{ID: "u-1", Email: "a@x.com"},
	}
}

func TestProcessUpload_MissingFileMakesNoCalls(t *testing.T) {
	repo, ai := newFakeRepo(), &fakeAI{}
	svc, _, _ := newTestService(repo, ai)

	in := audioInput()
	in.Audio = nil
	in.MeetingRef = "65f1c0ffee0000000000abcd"
	_, err := svc.ProcessUpload(context.Background(), in)

	requireAppError(t, err, http.StatusBadRequest)
	if repo.calls != 0 || ai.transcribed != 0 {
		t.Fatalf("expected no store or AI calls, got %d store / %d AI", repo.calls, ai.transcribed)
	}
}

func TestProcessUpload_NewMeetingWithParticipant(t *testing.T) {
	repo, ai := newFakeRepo(), &fakeAI{}
	svc, _, archive := newTestService(repo, ai)

	in := audioInput()
	in.Participants = []entities.Participant{{Name: "Bob", Email: "b@x.com"}}
	res, err := svc.ProcessUpload(context.Background(), in)
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}

	if len(res.Participants) != 1 || res.Participants[0].Name != "Bob" || res.Participants[0].ResearchData == "" {
		t.Fatalf("expected Bob's research, got %+v", res.Participants)
	}

	stored, ok := repo.meetings[res.MeetingID]
	if !ok {
		t.Fatalf("meeting %s not stored", res.MeetingID)
	}
	if stored.Status != entities.MeetingStatusCompleted || stored.Type != entities.MeetingTypeStandard {
		t.Fatalf("unexpected stored meeting %+v", stored)
	}
	if stored.Transcript != res.Transcript || stored.Summary != res.Summary {
		t.Fatal("stored transcript/summary differ from the response")
	}
	if stored.OwnerID != "u-1" || stored.OwnerEmail != "a@x.com" {
		t.Fatalf("owner not recorded: %+v", stored)
	}
	if len(stored.Participants) != 1 {
		t.Fatal("research should be embedded in the same write")
	}
	if stored.Language != "English" {
		t.Fatalf("language should default to English, got %q", stored.Language)
	}
	if len(archive.saved) != 1 || stored.AudioObject != "audio/standup.wav" {
		t.Fatalf("audio not archived: %v %q", archive.saved, stored.AudioObject)
	}
}

func preparedMeeting(repo *fakeRepo) *entities.Meeting {
	m := &entities.Meeting{
		ID:     bson.NewObjectID(),
		Type:   entities.MeetingTypePreparation,
		Status: entities.MeetingStatusPrepared,
		Topic:  "Q3 budget",
		Brief:  &entities.Brief{TalkingPoints: []string{"hiring"}},
		Participants: []entities.ParticipantResearch{
			{Name: "Ana", Email: "ana@x.com", ResearchData: "CFO"},
		},
	}
	repo.meetings[m.ID.Hex()] = m
	return m
}

func TestProcessUpload_ReusesStoredResearch(t *testing.T) {
	repo, ai := newFakeRepo(), &fakeAI{}
	svc, locker, _ := newTestService(repo, ai)
	prepared := preparedMeeting(repo)

	in := audioInput()
	in.MeetingRef = prepared.ID.Hex()
	in.Participants = []entities.Participant{
		{Name: "Ana", Email: "ANA@x.com"},
		{Name: "Bob", Email: "b@x.com"},
	}
	res, err := svc.ProcessUpload(context.Background(), in)
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}

	if len(ai.researched) != 1 || ai.researched[0] != "Bob" {
		t.Fatalf("only Bob should be researched, got %v", ai.researched)
	}
	if ai.prep == nil || ai.prep.Topic != "Q3 budget" {
		t.Fatalf("preparation context not passed to summarization: %+v", ai.prep)
	}
	if res.MeetingID != prepared.ID.Hex() {
		t.Fatalf("expected the prepared meeting id, got %s", res.MeetingID)
	}
	if len(res.Participants) != 2 {
		t.Fatalf("expected stored + new research, got %d", len(res.Participants))
	}
	if len(repo.completions) != 1 || len(repo.completions[0].NewParticipants) != 1 {
		t.Fatalf("expected one completion with Bob only, got %+v", repo.completions)
	}
	if prepared.Status != entities.MeetingStatusCompleted {
		t.Fatalf("prepared meeting not completed: %s", prepared.Status)
	}
	if len(locker.held) != 0 {
		t.Fatal("lock not released")
	}
}

func TestProcessUpload_CompletedMeetingRejected(t *testing.T) {
	repo, ai := newFakeRepo(), &fakeAI{}
	svc, _, _ := newTestService(repo, ai)
	prepared := preparedMeeting(repo)
	prepared.Status = entities.MeetingStatusCompleted

	in := audioInput()
	in.MeetingRef = prepared.ID.Hex()
	_, err := svc.ProcessUpload(context.Background(), in)

	requireAppError(t, err, http.StatusConflict)
	if ai.transcribed != 0 {
		t.Fatal("no AI spend expected for a completed meeting")
	}
}

func TestProcessUpload_ConcurrentUploadIsBusy(t *testing.T) {
	repo, ai := newFakeRepo(), &fakeAI{}
	svc, locker, _ := newTestService(repo, ai)
	prepared := preparedMeeting(repo)
	locker.held["meeting:"+prepared.ID.Hex()] = true

	in := audioInput()
	in.MeetingRef = prepared.ID.Hex()
	_, err := svc.ProcessUpload(context.Background(), in)

	appErr := requireAppError(t, err, http.StatusConflict)
	if appErr.Code != errors.ErrorCode_MEETING_BUSY {
		t.Fatalf("unexpected code %s", appErr.Code)
	}
}

func TestProcessUpload_PreparedMeetingOwnership(t *testing.T) {
	tests := []struct {
		name       string
		ownerID    string
		ownerEmail string
		caller     *Owner
		wantStatus int
		wantOwner  string
	}{
		{name: "other user is refused", ownerID: "alice", ownerEmail: "alice@x.com",
			caller: &Owner{ID: "mallory", Email: "m@x.com"}, wantStatus: http.StatusForbidden, wantOwner: "alice"},
		{name: "anonymous caller is refused", ownerID: "alice", ownerEmail: "alice@x.com",
			caller: nil, wantStatus: http.StatusForbidden, wantOwner: "alice"},
		{name: "owner completes", ownerID: "alice", ownerEmail: "alice@x.com",
			caller: &Owner{ID: "alice", Email: "alice@x.com"}, wantOwner: "alice"},
		{name: "legacy owner matched by email", ownerEmail: "Alice@x.com",
			caller: &Owner{ID: "alice", Email: "alice@x.com"}, wantOwner: ""},
		{name: "anonymous preparation is claimed", caller: &Owner{ID: "bob", Email: "b@x.com"}, wantOwner: "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ai := newFakeRepo(), &fakeAI{}
			svc, _, _ := newTestService(repo, ai)
			prepared := preparedMeeting(repo)
			prepared.OwnerID, prepared.OwnerEmail = tt.ownerID, tt.ownerEmail

			in := audioInput()
			in.MeetingRef = prepared.ID.Hex()
			in.Owner = tt.caller
			_, err := svc.ProcessUpload(context.Background(), in)

			if tt.wantStatus != 0 {
				appErr := requireAppError(t, err, tt.wantStatus)
				if appErr.Code != errors.ErrorCode_MEETING_FORBIDDEN {
					t.Fatalf("unexpected code %s", appErr.Code)
				}
				if ai.transcribed != 0 || len(repo.completions) != 0 {
					t.Fatal("refused upload must not reach the AI or the store")
				}
				if prepared.Status != entities.MeetingStatusPrepared {
					t.Fatalf("refused upload changed status to %s", prepared.Status)
				}
			} else if err != nil {
				t.Fatalf("ProcessUpload: %v", err)
			}

			if prepared.OwnerID != tt.wantOwner {
				t.Fatalf("owner = %q, want %q", prepared.OwnerID, tt.wantOwner)
			}
			if tt.ownerID != "" || tt.ownerEmail != "" {
				for _, c := range repo.completions {
					if c.OwnerID != "" || c.OwnerEmail != "" {
						t.Fatalf("completion of an owned meeting carries owner %q/%q", c.OwnerID, c.OwnerEmail)
					}
				}
			}
		})
	}
}

func TestProcessUpload_UnknownMeetingRefStartsNewMeeting(t *testing.T) {
	repo, ai := newFakeRepo(), &fakeAI{}
	svc, _, _ := newTestService(repo, ai)

	in := audioInput()
	in.MeetingRef = "1712000000000"
	res, err := svc.ProcessUpload(context.Background(), in)
	if err != nil {
		t.Fatalf("lookup failure should be ignored: %v", err)
	}
	if _, ok := repo.meetings[res.MeetingID]; !ok {
		t.Fatal("a new meeting should have been created")
	}
}

func TestProcessUpload_TranscriptionFailureSavesNothing(t *testing.T) {
	repo := newFakeRepo()
	ai := &fakeAI{transcribeErr: errors.ErrTranscriptionFailed(fmt.Errorf("bad audio"))}
	svc, _, _ := newTestService(repo, ai)

	_, err := svc.ProcessUpload(context.Background(), audioInput())
	requireAppError(t, err, http.StatusInternalServerError)
	if len(repo.meetings) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestProcessUpload_PersistenceFailureStillReturnsResult(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = entities.ErrStoreUnavailable
	svc, _, _ := newTestService(repo, &fakeAI{})

	res, err := svc.ProcessUpload(context.Background(), audioInput())
	if err != nil {
		t.Fatalf("persistence failure must not fail the request: %v", err)
	}
	if res.Transcript == "" || res.Summary == "" {
		t.Fatal("AI result missing")
	}
}

func TestProcessUpload_ResearchTimeoutOmitsResearch(t *testing.T) {
	repo := newFakeRepo()
	ai := &fakeAI{researchErr: errors.ErrUpstreamTimeout("Research service", jobcontext.ErrTimeout)}
	svc, _, _ := newTestService(repo, ai)

	in := audioInput()
	in.Participants = []entities.Participant{{Name: "Bob"}}
	res, err := svc.ProcessUpload(context.Background(), in)
	if err != nil {
		t.Fatalf("research failure should not fail the upload: %v", err)
	}
	if len(res.Participants) != 0 {
		t.Fatalf("failed batch should contribute nothing, got %d", len(res.Participants))
	}
}

func TestProcessWhatsApp(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, &fakeAI{})

	res, err := svc.ProcessWhatsApp(context.Background(), audioInput())
	if err != nil {
		t.Fatalf("ProcessWhatsApp: %v", err)
	}
	if res.Type != entities.MeetingTypeWhatsApp {
		t.Fatalf("unexpected type %s", res.Type)
	}
	if stored := repo.meetings[res.MeetingID]; stored == nil || stored.Type != entities.MeetingTypeWhatsApp {
		t.Fatal("voice note not stored")
	}

	in := audioInput()
	in.Audio = nil
	_, err = svc.ProcessWhatsApp(context.Background(), in)
	requireAppError(t, err, http.StatusBadRequest)
}

func TestPrepare(t *testing.T) {
	repo := newFakeRepo()
	ai := &fakeAI{}
	svc, _, _ := newTestService(repo, ai)

	_, err := svc.Prepare(context.Background(), PrepareInput{Participants: []entities.Participant{{Name: "Ana"}}})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.Prepare(context.Background(), PrepareInput{Topic: "Launch"})
	requireAppError(t, err, http.StatusBadRequest)

	res, err := svc.Prepare(context.Background(), PrepareInput{
		Topic:        "Launch",
		Participants: []entities.Participant{{Name: "Ana"}, {Name: "Bob"}},
	})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(res.Research) != 2 || res.Research[0].Name != "Ana" || res.Research[1].Name != "Bob" {
		t.Fatalf("research should keep participant order: %+v", res.Research)
	}
	stored := repo.meetings[res.MeetingID]
	if stored == nil || stored.Status != entities.MeetingStatusPrepared || len(stored.Participants) != 2 {
		t.Fatalf("prepared meeting not stored with research: %+v", stored)
	}
}

func TestPrepare_ResearchFailureFailsAll(t *testing.T) {
	repo := newFakeRepo()
	ai := &fakeAI{researchErr: errors.ErrUpstreamTimeout("Research service", jobcontext.ErrTimeout)}
	svc, _, _ := newTestService(repo, ai)

	_, err := svc.Prepare(context.Background(), PrepareInput{Topic: "Launch", Participants: []entities.Participant{{Name: "Ana"}}})
	requireAppError(t, err, http.StatusGatewayTimeout)
	if len(repo.meetings) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestGetMeeting(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, &fakeAI{})
	prepared := preparedMeeting(repo)
	prepared.LegacyID = "1712000000000"
	prepared.AudioObject = "audio/x.wav"

	details, err := svc.GetMeeting(context.Background(), "1712000000000")
	if err != nil {
		t.Fatalf("GetMeeting by legacy id: %v", err)
	}
	if len(details.Participants) != 1 || details.AudioURL == "" {
		t.Fatalf("unexpected details %+v", details)
	}

	_, err = svc.GetMeeting(context.Background(), "missing")
	requireAppError(t, err, http.StatusNotFound)
}

func TestHistory(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, &fakeAI{})

	_, err := svc.History(context.Background(), nil)
	requireAppError(t, err, http.StatusUnauthorized)

	res, err := svc.ProcessUpload(context.Background(), audioInput())
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	meetings, err := svc.History(context.Background(), &Owner{ID: "u-1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(meetings) != 1 || meetings[0].Transcript != res.Transcript || meetings[0].Summary != res.Summary {
		t.Fatalf("history should round-trip the upload: %+v", meetings)
	}

	repo.listErr = fmt.Errorf("find: %w", entities.ErrStoreUnavailable)
	_, err = svc.History(context.Background(), &Owner{ID: "u-1"})
	requireAppError(t, err, http.StatusServiceUnavailable)
}
