package intelligence

import (
	"context"
	"fmt"
	"strings"

	"museumchat/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiPhraser generates conversational wording for replies the booking
// engine does not mandate verbatim. It implements chat.Phraser.
type GeminiPhraser struct {
	model      *genai.GenerativeModel
	ctxStore   *RedisContextStore
	museumName string
}

func NewGeminiPhraser(apiKey, museumName string, ctxStore *RedisContextStore) (*GeminiPhraser, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiPhraser{model: model, ctxStore: ctxStore, museumName: museumName}, nil
}

// Phrase answers a visitor aside. The reply is grounded in the museum
// persona, the session's booking progress, and recent chat history.
func (g *GeminiPhraser) Phrase(ctx context.Context, prompt string, session models.Session) (string, error) {
	reply, err := g.generate(ctx, g.buildPrompt(ctx, prompt, session))
	if err != nil {
		return "", err
	}
	if g.ctxStore != nil && session.ID != "" {
		_ = g.ctxStore.Append(ctx, session.ID,
			models.ChatTurn{Role: "user", Content: prompt},
			models.ChatTurn{Role: "assistant", Content: reply},
		)
	}
	return reply, nil
}

func (g *GeminiPhraser) buildPrompt(ctx context.Context, prompt string, session models.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the ticket booking assistant of the %s. ", g.museumName)
	b.WriteString("Answer the visitor's question briefly and steer them back to the booking flow. ")
	fmt.Fprintf(&b, "The booking is currently at the %q step.\n", session.Step)

	if g.ctxStore != nil && session.ID != "" {
		if chatCtx, err := g.ctxStore.Get(ctx, session.ID); err == nil {
			for _, turn := range chatCtx.History {
				fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
			}
		}
	}
	fmt.Fprintf(&b, "user: %s\nassistant:", prompt)
	return b.String()
}

func (g *GeminiPhraser) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
