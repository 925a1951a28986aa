package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/tomvane/triage/internal/agentspec"
)

// Agent is an LLM responder shaped by an agent profile. The coding profile
// runs through this type; actually executing generated code is an external
// capability, the agent only writes and explains it.
type Agent struct {
	client  *anthropic.Client
	model   anthropic.Model
	profile agentspec.Profile
}

// NewAgent builds a profile-driven LLM responder.
func NewAgent(client *anthropic.Client, model anthropic.Model, profile agentspec.Profile) *Agent {
	return &Agent{client: client, model: model, profile: profile}
}

// Respond sends the query with its historical context to the model.
func (a *Agent) Respond(ctx context.Context, query, history string) (Result, error) {
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: a.systemPrompt()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				fmt.Sprintf("Historical Context:\n%s\n\nUser Query: %s", history, query),
			)),
		},
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("agent %s: %w", a.profile.Name, err)
	}

	return Result{Raw: messageText(resp)}, nil
}

func (a *Agent) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s", a.profile.Role, a.profile.Goal)
	if a.profile.Backstory != "" {
		b.WriteString("\n\n")
		b.WriteString(a.profile.Backstory)
	}
	if a.profile.Expected != "" {
		b.WriteString("\n\n")
		b.WriteString(a.profile.Expected)
	}
	return b.String()
}

// messageText concatenates the text blocks of a response.
func messageText(msg *anthropic.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String()
}
