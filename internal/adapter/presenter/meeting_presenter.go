package presenter

import (
	meetingDTO "github.com/johnquangdev/meeting-intel/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
	"github.com/johnquangdev/meeting-intel/internal/usecase/meeting"
)

// ToUploadResponse converts a processed recording to its DTO
func ToUploadResponse(r *meeting.UploadResult) *meetingDTO.UploadResponse {
	if r == nil {
		return nil
	}
	participants := r.Participants
	if participants == nil {
		participants = []entities.ParticipantResearch{}
	}
	return &meetingDTO.UploadResponse{
		MeetingID:    r.MeetingID,
		Type:         string(r.Type),
		Filename:     r.Filename,
		Transcript:   r.Transcript,
		Summary:      r.Summary,
		Participants: participants,
		Status:       "success",
	}
}

// ToPrepareResponse flattens the brief next to the meeting id
func ToPrepareResponse(r *meeting.PrepareResult) *meetingDTO.PrepareResponse {
	if r == nil {
		return nil
	}
	resp := &meetingDTO.PrepareResponse{
		MeetingID: r.MeetingID,
		Research:  r.Research,
	}
	if r.Brief != nil {
		resp.Brief = r.Brief.Brief
		resp.TalkingPoints = r.Brief.TalkingPoints
		resp.Questions = r.Brief.Questions
		resp.Icebreakers = r.Brief.Icebreakers
	}
	return resp
}

// ToMeetingResponse converts meeting details to the DTO
func ToMeetingResponse(d *meeting.MeetingDetails) *meetingDTO.MeetingResponse {
	if d == nil {
		return nil
	}
	participants := d.Participants
	if participants == nil {
		participants = []entities.ParticipantResearch{}
	}
	return &meetingDTO.MeetingResponse{
		Meeting:      d.Meeting,
		Participants: participants,
		AudioURL:     d.AudioURL,
	}
}

// ToHistory converts the caller's meetings to history entries
func ToHistory(meetings []*entities.Meeting) []meetingDTO.HistoryItem {
	items := make([]meetingDTO.HistoryItem, 0, len(meetings))
	for _, m := range meetings {
		items = append(items, meetingDTO.HistoryItem{
			MeetingID:  m.Ref(),
			Type:       string(m.Type),
			Status:     string(m.Status),
			Filename:   m.Filename,
			Topic:      m.Topic,
			Transcript: m.Transcript,
			Summary:    m.Summary,
			Timestamp:  m.CreatedTime(),
		})
	}
	return items
}
