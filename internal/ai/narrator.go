// Package ai renders engine results into narrative prose through a chat
// completion model. The engine never parses the prose back; when the model is
// unavailable the caller falls back to the deterministic text from
// FallbackNarration so state transitions already applied are never lost.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/sashabaranov/go-openai"
)

const MaxTokens = 1024

const systemPrompt = `You are the narrator of a detective investigation game.
Describe the outcome of the player's action in two or three atmospheric
sentences. Never reveal evidence, suspects, or solutions beyond the facts
given to you.`

type Narrator struct {
	client *openai.Client
}

func NewNarrator() Narrator {
	return Narrator{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
	}
}

// Narrate turns a match result into prose. The evidence payload is passed
// through from the case definition; the model sees display fields only.
func (n *Narrator) Narrate(
	ctx context.Context,
	def *models.CaseDefinition,
	result models.MatchResult,
	action string,
) (string, error) {
	completion, err := n.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     openai.GPT3Dot5Turbo1106,
			MaxTokens: MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: narrationContext(def, result, action)},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// narrationContext flattens the structured result for the model.
func narrationContext(def *models.CaseDefinition, result models.MatchResult, action string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case: %s\nPlayer action: %s\nOutcome: %s\n", def.Title, action, result.Outcome)
	if evidence, ok := def.EvidenceByID(result.EvidenceID); ok {
		fmt.Fprintf(&b, "Evidence found: %s. %s\n", evidence.Name, evidence.Description)
	}
	for _, event := range result.Unlocks {
		if hypothesis, ok := def.HypothesisByID(event.HypothesisID); ok {
			fmt.Fprintf(&b, "New theory opened: %s\n", hypothesis.Title)
		}
	}
	return b.String()
}

// FallbackNarration is the deterministic text used when the model call fails
// or times out.
func FallbackNarration(def *models.CaseDefinition, result models.MatchResult) string {
	switch result.Outcome {
	case models.MatchDiscovered:
		if evidence, ok := def.EvidenceByID(result.EvidenceID); ok {
			return fmt.Sprintf("You discover %s. %s", evidence.Name, evidence.Description)
		}
		return "You discover something of interest."
	case models.MatchAlreadyExamined:
		if evidence, ok := def.EvidenceByID(result.EvidenceID); ok {
			return fmt.Sprintf("You have already examined %s.", evidence.Name)
		}
		return "You have already examined that."
	case models.MatchNotPresent:
		return "You search carefully, but there is nothing of the sort here."
	default:
		return "Nothing new catches your eye."
	}
}
