// services/extraction_service.go
package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/motoventas/crm_backend/models"
)

const inventoryExtractionPrompt = `You are given a motorcycle dealership inventory document (base64-encoded PDF).
Extract every listed unit and reply with JSON only, in the shape:
{"units":[{"model":"<model name>","sku":"<unit serial/SKU>","stock":<integer>}]}
Rows without a SKU get one object with the row's stock count and an empty sku.`

const notesSummaryPrompt = `Summarize the following dealership prospect notes in 2-3 short sentences.
Keep names, amounts and agreed next steps. Reply with the summary only.`

const draftMessagePrompt = `Write a short, friendly WhatsApp follow-up message in Spanish from a motorcycle
dealership salesperson to the prospect described below. No subject line, no signature placeholders.`

// ExtractionService wraps the AI collaborator: PDF inventory extraction,
// prospect note summarization and follow-up drafting. The model output is
// treated as opaque; only the parsed structure is consumed.
type ExtractionService struct {
	client *openai.Client
	model  string
	log    *logrus.Logger
}

// NewExtractionServiceFromEnv reads OPENAI_API_KEY and optional
// OPENAI_MODEL. Without a key the service stays disabled and calls fail
// cleanly.
func NewExtractionServiceFromEnv(log *logrus.Logger) *ExtractionService {
	svc := &ExtractionService{model: openai.GPT4oMini, log: log}
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		log.Warn("OPENAI_API_KEY not set, AI helpers disabled")
		return svc
	}
	if m := os.Getenv("OPENAI_MODEL"); m != "" {
		svc.model = m
	}
	svc.client = openai.NewClient(key)
	return svc
}

// Enabled reports whether the AI collaborator is configured.
func (e *ExtractionService) Enabled() bool { return e.client != nil }

// ExtractInventory sends an uploaded inventory document to the model and
// returns the extracted units.
func (e *ExtractionService) ExtractInventory(ctx context.Context, payload []byte) ([]models.ExtractedUnit, error) {
	if e.client == nil {
		return nil, fmt.Errorf("AI extraction is not configured")
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: inventoryExtractionPrompt},
			{Role: openai.ChatMessageRoleUser, Content: base64.StdEncoding.EncodeToString(payload)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("inventory extraction failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("inventory extraction returned no choices")
	}

	var parsed struct {
		Units []models.ExtractedUnit `json:"units"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("inventory extraction returned malformed JSON: %w", err)
	}
	return parsed.Units, nil
}

// SummarizeNotes condenses a prospect's note history.
func (e *ExtractionService) SummarizeNotes(ctx context.Context, notes []models.ProspectNote) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("AI helpers are not configured")
	}
	var sb strings.Builder
	for _, n := range notes {
		sb.WriteString("- " + n.Text + "\n")
	}
	return e.complete(ctx, notesSummaryPrompt, sb.String())
}

// DraftMessage writes a follow-up message for a prospect.
func (e *ExtractionService) DraftMessage(ctx context.Context, p *models.Prospect) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("AI helpers are not configured")
	}
	desc := fmt.Sprintf("Prospect: %s\nInterested in: %s\nPipeline stage: %s\n", p.Name, p.ModelOfInterest, p.Stage)
	for _, n := range p.Notes {
		desc += "Note: " + n.Text + "\n"
	}
	return e.complete(ctx, draftMessagePrompt, desc)
}

func (e *ExtractionService) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
