package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

func TestWrapStoreErr(t *testing.T) {
	if wrapStoreErr(nil) != nil {
		t.Fatalf("nil should stay nil")
	}

	plain := errors.New("duplicate key")
	if errors.Is(wrapStoreErr(plain), entities.ErrStoreUnavailable) {
		t.Fatalf("plain errors must not be reported as unavailable")
	}

	timeout := fmt.Errorf("server selection: %w", context.DeadlineExceeded)
	if !errors.Is(wrapStoreErr(timeout), entities.ErrStoreUnavailable) {
		t.Fatalf("timeouts must be reported as unavailable")
	}
}

func TestParticipants_PrefersEmbedded(t *testing.T) {
	r := &MeetingRepository{}
	m := &entities.Meeting{Participants: []entities.ParticipantResearch{{Name: "Bob", ResearchData: "x"}}}

	got, err := r.Participants(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(got) != 1 || got[0].Name != "Bob" {
		t.Fatalf("expected embedded research, got %+v", got)
	}

	if _, err := r.Participants(context.Background(), nil); !errors.Is(err, entities.ErrMeetingNotFound) {
		t.Fatalf("expected not found for nil meeting, got %v", err)
	}
}
