package insights

import (
	"fmt"

	"github.com/MelanieChenMC/meliora/internal/models"
)

const suggestionSystemPrompt = `You are an assistant listening to a live conversation transcript.
Respond with a single JSON object and nothing else, using exactly these keys:
{"topics": [strings], "concerns": [strings], "action_items": [strings], "risk": "low"|"medium"|"high"}`

const summarySystemPrompt = `You are an assistant summarizing a completed conversation transcript.
Respond with a single JSON object and nothing else, using exactly these keys:
{"summary": string, "key_points": [strings], "follow_ups": [strings], "risk": "low"|"medium"|"high"}`

func suggestionUserPrompt(scenario models.ScenarioType, transcript string) string {
	return fmt.Sprintf("Scenario: %s.\nRecent transcript window:\n\n%s\n\nIdentify the topics being discussed, any concerns that deserve attention, concrete action items, and an overall risk level.", scenario, transcript)
}

func summaryUserPrompt(scenario models.ScenarioType, transcript string) string {
	return fmt.Sprintf("Scenario: %s.\nFull transcript:\n\n%s\n\nWrite a concise summary, the key points covered, recommended follow-ups, and an overall risk level.", scenario, transcript)
}

// suggestionPayload mirrors the JSON shape requested from the model.
type suggestionPayload struct {
	Topics      []string `json:"topics"`
	Concerns    []string `json:"concerns"`
	ActionItems []string `json:"action_items"`
	Risk        string   `json:"risk"`
}

// summaryPayload mirrors the JSON shape requested from the model.
type summaryPayload struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	FollowUps []string `json:"follow_ups"`
	Risk      string   `json:"risk"`
}
