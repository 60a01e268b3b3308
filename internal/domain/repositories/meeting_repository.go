package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create inserts a meeting together with its embedded participant research
	Create(ctx context.Context, meeting *entities.Meeting) error

	// Resolve finds a meeting by canonical ObjectID hex or by legacy string id
	Resolve(ctx context.Context, ref string) (*entities.Meeting, error)

	// Complete writes a processed recording onto an unfinished meeting in one update.
	// Returns entities.ErrMeetingCompleted if the meeting is already terminal.
	Complete(ctx context.Context, id bson.ObjectID, completion entities.MeetingCompletion) (*entities.Meeting, error)

	// ListByOwner returns the user's meetings, newest first
	ListByOwner(ctx context.Context, ownerID, ownerEmail string) ([]*entities.Meeting, error)

	// Participants returns the research attached to a meeting
	Participants(ctx context.Context, meeting *entities.Meeting) ([]entities.ParticipantResearch, error)
}
