package entities

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MeetingType distinguishes how a meeting record was produced
type MeetingType string

const (
	MeetingTypeStandard    MeetingType = "standard"
	MeetingTypeWhatsApp    MeetingType = "whatsapp"
	MeetingTypePreparation MeetingType = "preparation"
)

// MeetingStatus is the processing state of a meeting
type MeetingStatus string

const (
	MeetingStatusPrepared   MeetingStatus = "prepared"
	MeetingStatusUploaded   MeetingStatus = "uploaded"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusCompleted  MeetingStatus = "completed"
	MeetingStatusError      MeetingStatus = "error"
)

var statusRank = map[MeetingStatus]int{
	MeetingStatusPrepared:   0,
	MeetingStatusUploaded:   1,
	MeetingStatusProcessing: 2,
	MeetingStatusCompleted:  3,
	MeetingStatusError:      3,
}

// IsTerminal reports whether no further pipeline writes are allowed
func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingStatusCompleted || s == MeetingStatusError
}

// CanAdvanceTo reports whether moving from s to next keeps status monotonic
func (s MeetingStatus) CanAdvanceTo(next MeetingStatus) bool {
	if s.IsTerminal() {
		return false
	}
	from, ok := statusRank[s]
	if !ok {
		from = statusRank[MeetingStatusUploaded]
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// StatusesBlocking lists the known statuses that cannot move to next
func StatusesBlocking(next MeetingStatus) []MeetingStatus {
	var blocked []MeetingStatus
	for _, s := range []MeetingStatus{
		MeetingStatusPrepared,
		MeetingStatusUploaded,
		MeetingStatusProcessing,
		MeetingStatusCompleted,
		MeetingStatusError,
	} {
		if !s.CanAdvanceTo(next) {
			blocked = append(blocked, s)
		}
	}
	return blocked
}

// Meeting is a persisted audio meeting, WhatsApp note or preparation brief.
// Participant research is embedded so the meeting and its research are written together.
type Meeting struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"meetingId"`
	// LegacyID holds the timestamp string ids issued before ObjectIDs were canonical
	LegacyID string `bson:"meetingId,omitempty" json:"legacyId,omitempty"`

	OwnerID    string `bson:"ownerId,omitempty" json:"ownerId,omitempty"`
	OwnerEmail string `bson:"userEmail,omitempty" json:"userEmail,omitempty"`

	Filename    string `bson:"filename,omitempty" json:"filename,omitempty"`
	MimeType    string `bson:"mimeType,omitempty" json:"mimeType,omitempty"`
	Language    string `bson:"language,omitempty" json:"language,omitempty"`
	AudioObject string `bson:"audioObject,omitempty" json:"-"`

	Transcript string `bson:"transcript,omitempty" json:"transcript,omitempty"`
	// Summary is the JSON document returned by the summarizer, stored verbatim
	Summary string `bson:"summary,omitempty" json:"summary,omitempty"`

	Type   MeetingType   `bson:"type" json:"type"`
	Status MeetingStatus `bson:"status" json:"status"`

	Topic string `bson:"topic,omitempty" json:"topic,omitempty"`
	Brief *Brief `bson:"brief,omitempty" json:"brief,omitempty"`

	Participants []ParticipantResearch `bson:"participants,omitempty" json:"participants,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	// Timestamp is the creation time written by the first schema
	Timestamp time.Time `bson:"timestamp,omitempty" json:"-"`
}

// CreatedTime returns when the meeting was recorded, for old and new records alike
func (m *Meeting) CreatedTime() time.Time {
	if !m.CreatedAt.IsZero() {
		return m.CreatedAt
	}
	return m.Timestamp
}

// Ref returns the identifier clients use for the meeting
func (m *Meeting) Ref() string {
	if !m.ID.IsZero() {
		return m.ID.Hex()
	}
	return m.LegacyID
}

// HasOwner reports whether the meeting was created by a signed-in user
func (m *Meeting) HasOwner() bool {
	return m.OwnerID != "" || m.OwnerEmail != ""
}

// OwnedBy reports whether the caller owns the meeting. Records from before owner ids
// were stored are matched by email.
func (m *Meeting) OwnedBy(userID, email string) bool {
	if m.OwnerID != "" {
		return userID != "" && userID == m.OwnerID
	}
	return email != "" && strings.EqualFold(email, m.OwnerEmail)
}

// PrepContext returns the preparation context a later recording is summarized against
func (m *Meeting) PrepContext() *PrepContext {
	if m == nil || (m.Topic == "" && m.Brief == nil) {
		return nil
	}
	prep := &PrepContext{Topic: m.Topic}
	if m.Brief != nil {
		prep.TalkingPoints = m.Brief.TalkingPoints
		prep.Questions = m.Brief.Questions
	}
	return prep
}

// MeetingCompletion is the set of fields written when a recording finishes processing
type MeetingCompletion struct {
	Filename        string
	MimeType        string
	Language        string
	AudioObject     string
	Transcript      string
	Summary         string
	Type            MeetingType
	OwnerID         string
	OwnerEmail      string
	NewParticipants []ParticipantResearch
}

// PrepContext carries the brief of a prepared meeting into summarization
type PrepContext struct {
	Topic         string
	TalkingPoints []string
	Questions     []string
}

// Brief is the generated pre-meeting artifact
type Brief struct {
	Brief         string   `bson:"brief" json:"brief"`
	TalkingPoints []string `bson:"talkingPoints" json:"talkingPoints"`
	Questions     []string `bson:"questions" json:"questions"`
	Icebreakers   []string `bson:"icebreakers" json:"icebreakers"`
}
