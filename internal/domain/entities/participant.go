package entities

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ResearchNotFound is stored when research produced nothing usable
const ResearchNotFound = "Information not found."

// Participant is a person attending a meeting, as supplied by the client
type Participant struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Company string `json:"company,omitempty"`
}

// ParticipantResearch is background information gathered about one participant
type ParticipantResearch struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	Company      string        `bson:"company,omitempty" json:"company,omitempty"`
	ResearchData string        `bson:"researchData" json:"researchData"`
	ResearchedAt time.Time     `bson:"researchedAt" json:"researchedAt"`
}

// NewParticipantResearch stamps research for a participant
func NewParticipantResearch(p Participant, research string) ParticipantResearch {
	return ParticipantResearch{
		ID:           bson.NewObjectID(),
		Name:         p.Name,
		Email:        p.Email,
		Company:      p.Company,
		ResearchData: research,
		ResearchedAt: time.Now().UTC(),
	}
}

// Key identifies a participant within a meeting
func (p Participant) Key() string {
	if p.Email != "" {
		return strings.ToLower(strings.TrimSpace(p.Email))
	}
	return "name:" + strings.ToLower(strings.TrimSpace(p.Name))
}

// Key identifies the researched participant within a meeting
func (r ParticipantResearch) Key() string {
	return Participant{Name: r.Name, Email: r.Email}.Key()
}
