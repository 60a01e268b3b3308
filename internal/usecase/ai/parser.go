package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// Parser handles cleanup and decoding of model responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// CleanJSON strips markdown fences the model may wrap its JSON in
func (p *Parser) CleanJSON(content string) string {
	return extractJSON(content)
}

// ParseBrief decodes a brief, tolerating prose around the JSON object
func (p *Parser) ParseBrief(content string) (*entities.Brief, error) {
	content = outermostObject(extractJSON(content))

	var brief entities.Brief
	if err := json.Unmarshal([]byte(content), &brief); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if brief.Brief == "" && len(brief.TalkingPoints) == 0 && len(brief.Questions) == 0 {
		return nil, fmt.Errorf("brief is empty")
	}
	return &brief, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

// outermostObject cuts content down to its first '{' through its last '}'
func outermostObject(content string) string {
	first := strings.Index(content, "{")
	last := strings.LastIndex(content, "}")
	if first == -1 || last < first {
		return content
	}
	return content[first : last+1]
}
