package ai

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

const systemPrompt = "You are a meeting intelligence assistant. Follow the requested output format exactly."

const researchSystemPrompt = "You are a professional background researcher. Be factual and flag uncertainty."

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func summaryPrompt(transcript, language string, prep *entities.PrepContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Summarize the following transcript in %s into structured JSON.
Format the response as a JSON object with these keys:
- "outcomes": array of long strings (detailed and comprehensive explanations of key outcomes)
- "decisions": array of strings (briefly state any final decisions made)
- "actionItems": array of objects with "task", "owner", and "deadline" keys
- "risks": array of strings (potential risks, open questions, or uncertainties)
- "nextSteps": array of strings (clear next steps or future agenda items)

Guidelines:
- Be factual but comprehensive for outcomes.
- Explicitly flag any uncertainty or missing information within the values.
- Return ONLY the raw JSON object. No Markdown formatting, no extra text.
`, language)

	if prep != nil {
		b.WriteString("\nThis meeting was prepared in advance.\n")
		if prep.Topic != "" {
			fmt.Fprintf(&b, "Planned topic: %s\n", prep.Topic)
		}
		if len(prep.TalkingPoints) > 0 {
			b.WriteString("Planned talking points:\n")
			for _, tp := range prep.TalkingPoints {
				fmt.Fprintf(&b, "- %s\n", tp)
			}
		}
		if len(prep.Questions) > 0 {
			b.WriteString("Planned questions:\n")
			for _, q := range prep.Questions {
				fmt.Fprintf(&b, "- %s\n", q)
			}
		}
		b.WriteString("Note in the outcomes and risks which planned points were covered and which were not.\n")
	}

	fmt.Fprintf(&b, "\nTranscript:\n%s\n", transcript)
	return b.String()
}

func whatsAppPrompt(transcript, language string) string {
	return fmt.Sprintf(`Summarize the following WhatsApp audio transcript in %s into structured JSON.
Format the response as a JSON object with these EXACT keys:
- "summary": string (a concise summary of the audio note)
- "immediateActions": array of strings (clear, immediate actions required, if any)

Guidelines:
- Keep it brief and direct, suitable for a quick read.
- Return ONLY the raw JSON object. No Markdown formatting, no extra text.

Transcript:
%s
`, language, transcript)
}

func researchPrompt(p entities.Participant) string {
	return fmt.Sprintf(`Find professional information about this person:
Name: %s
Email: %s
Company: %s

Guidelines:
1. Prefer LinkedIn-style professional profiles as the primary source.
2. Use the company name to narrow down and verify matching profiles.
3. If the match is ambiguous, describe the most likely profile and say so.

Provide the following details in a structured format:
**Certainty Level**: [High / Medium / Low] (explain briefly why)
**Name**: [Full Name]
**Work**: [Current and past work experience]
**Studies**: [Educational background]
**Role / title**: [Current professional role]
**Interesting additional information**: [Any other relevant professional or public info]

If nothing specific is known, provide placeholders and set Certainty Level to Low.
`, orUnknown(p.Name), orUnknown(p.Email), orUnknown(p.Company))
}

func briefPrompt(topic string, research []entities.ParticipantResearch) string {
	var people strings.Builder
	for _, r := range research {
		fmt.Fprintf(&people, "Person: %s (%s)\nResearch: %s\n\n", orUnknown(r.Name), orUnknown(r.Company), r.ResearchData)
	}

	return fmt.Sprintf(`Prepare a meeting brief for the following topic: %q

Participants Research:
%s
Generate a structured JSON response with:
- "brief": string (executive summary of the context and participants)
- "talkingPoints": array of strings (strategic points to discuss based on participant backgrounds)
- "questions": array of strings (insightful questions to ask specific participants)
- "icebreakers": array of strings (personalized icebreakers based on research)

Return ONLY the raw JSON object.
`, topic, people.String())
}
