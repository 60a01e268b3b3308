package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// UploadResponse is returned after a recording or voice note was processed
type UploadResponse struct {
	MeetingID    string                         `json:"meetingId"`
	Type         string                         `json:"type"`
	Filename     string                         `json:"filename"`
	Transcript   string                         `json:"transcript"`
	Summary      string                         `json:"summary"`
	Participants []entities.ParticipantResearch `json:"participants"`
	Status       string                         `json:"status"`
}

// PrepareResponse is the generated brief with the research it was built from
type PrepareResponse struct {
	MeetingID     string                         `json:"meetingId"`
	Brief         string                         `json:"brief"`
	TalkingPoints []string                       `json:"talkingPoints"`
	Questions     []string                       `json:"questions"`
	Icebreakers   []string                       `json:"icebreakers"`
	Research      []entities.ParticipantResearch `json:"researchResults"`
}

// MeetingResponse is a stored meeting with its participant research
type MeetingResponse struct {
	Meeting      *entities.Meeting              `json:"meeting"`
	Participants []entities.ParticipantResearch `json:"participants"`
	AudioURL     string                         `json:"audioUrl,omitempty"`
}

// HistoryItem is one entry of the caller's meeting history
type HistoryItem struct {
	MeetingID  string    `json:"meetingId"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Filename   string    `json:"filename,omitempty"`
	Topic      string    `json:"topic,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
