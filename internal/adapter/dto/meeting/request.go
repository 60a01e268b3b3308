package meeting

import "github.com/johnquangdev/meeting-intel/internal/domain/entities"

// PrepareRequest describes an upcoming meeting to brief
type PrepareRequest struct {
	Topic        string                 `json:"topic" validate:"required"`
	Participants []entities.Participant `json:"participants" validate:"required,min=1,dive"`
}
