package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/tomvane/triage/internal/agentspec"
)

// AnthropicDecider implements Decider with a Claude call shaped by the
// supervisor profile.
type AnthropicDecider struct {
	client  *anthropic.Client
	model   anthropic.Model
	profile agentspec.Profile
}

// NewAnthropicDecider builds a decider from the supervisor profile.
func NewAnthropicDecider(client *anthropic.Client, model anthropic.Model, profile agentspec.Profile) *AnthropicDecider {
	return &AnthropicDecider{client: client, model: model, profile: profile}
}

// Decide asks the model to classify the query and resolves the answer
// against the profile's label set.
func (d *AnthropicDecider) Decide(ctx context.Context, query, history string) (Decision, error) {
	params := anthropic.MessageNewParams{
		Model:     d.model,
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: d.systemPrompt()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(taskPrompt(query, history))),
		},
	}

	resp, err := d.client.Messages.New(ctx, params)
	if err != nil {
		return Decision{}, fmt.Errorf("decide: %w", err)
	}

	raw := responseText(resp)
	return Decision{Raw: raw, Label: Resolve(raw, d.profile.Labels)}, nil
}

// systemPrompt composes the supervisor identity from its profile.
func (d *AnthropicDecider) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s", d.profile.Role, d.profile.Goal)
	if d.profile.Backstory != "" {
		b.WriteString("\n\n")
		b.WriteString(d.profile.Backstory)
	}
	if len(d.profile.Labels) > 0 {
		fmt.Fprintf(&b,
			"\n\nWhen the query should be delegated, answer with exactly one of: %s. Otherwise answer the query directly in natural language.",
			strings.Join(d.profile.Labels, ", "))
	}
	return b.String()
}

// taskPrompt is the per-turn user message: historical context then the query,
// mirroring the task template the agents were designed around.
func taskPrompt(query, history string) string {
	return fmt.Sprintf("Historical Context:\n%s\n\nUser Query: %s", history, query)
}

// responseText concatenates the text blocks of a message.
func responseText(msg *anthropic.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String()
}
