package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionItem is a task extracted from a meeting
type ActionItem struct {
	Task     string `json:"task"`
	Owner    string `json:"owner,omitempty"`
	Deadline string `json:"deadline,omitempty"`
}

// Summary is the structured summary of a standard meeting
type Summary struct {
	Outcomes    []string     `json:"outcomes"`
	Decisions   []string     `json:"decisions"`
	ActionItems []ActionItem `json:"actionItems"`
	Risks       []string     `json:"risks"`
	NextSteps   []string     `json:"nextSteps"`
}

// IsEmpty reports whether no section carries content
func (s *Summary) IsEmpty() bool {
	return len(s.Outcomes) == 0 && len(s.Decisions) == 0 && len(s.ActionItems) == 0 &&
		len(s.Risks) == 0 && len(s.NextSteps) == 0
}

// ParseSummary decodes a stored summary document
func ParseSummary(raw string) (*Summary, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty summary")
	}
	var s Summary
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	return &s, nil
}

// WhatsAppSummary is the short summary produced for voice notes
type WhatsAppSummary struct {
	Summary          string   `json:"summary"`
	ImmediateActions []string `json:"immediateActions"`
}

// ParseWhatsAppSummary decodes a stored voice note summary
func ParseWhatsAppSummary(raw string) (*WhatsAppSummary, error) {
	var s WhatsAppSummary
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &s); err != nil {
		return nil, fmt.Errorf("failed to parse whatsapp summary: %w", err)
	}
	return &s, nil
}
