package responder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	chromem "github.com/philippgille/chromem-go"

	"github.com/tomvane/triage/internal/agentspec"
)

// NoDocumentsAnswer is returned when the index yields nothing relevant; the
// retrieval agent must not invent an answer without documents.
const NoDocumentsAnswer = "I don't know the answer."

// Retrieval answers queries from a persisted chromem-go collection. Index
// construction is an offline step; this responder only opens an existing
// database and queries it.
type Retrieval struct {
	collection *chromem.Collection
	client     *anthropic.Client
	model      anthropic.Model
	profile    agentspec.Profile
	topK       int
}

// OpenRetrieval loads the persisted vector index at path and prepares the
// retrieval responder over the named collection. The embedding function must
// match the one the index was built with.
func OpenRetrieval(
	path, collectionName string,
	embed chromem.EmbeddingFunc,
	client *anthropic.Client,
	model anthropic.Model,
	profile agentspec.Profile,
	topK int,
) (*Retrieval, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("open document index: %w", err)
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %q: %w", collectionName, err)
	}

	if topK <= 0 {
		topK = 3
	}

	return &Retrieval{
		collection: col,
		client:     client,
		model:      model,
		profile:    profile,
		topK:       topK,
	}, nil
}

// Respond retrieves the top documents for the query and lets the model
// answer strictly from them. An empty collection or no hits short-circuits
// to NoDocumentsAnswer.
func (r *Retrieval) Respond(ctx context.Context, query, history string) (Result, error) {
	docs, err := r.retrieve(ctx, query)
	if err != nil {
		return Result{}, err
	}
	if len(docs) == 0 {
		slog.Debug("retrieval found no documents", "query_len", len(query))
		return Result{Raw: NoDocumentsAnswer}, nil
	}

	params := anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: r.systemPrompt()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				fmt.Sprintf(
					"Retrieved documents:\n%s\n\nHistorical Context:\n%s\n\nUser Query: %s",
					strings.Join(docs, "\n---\n"), history, query,
				),
			)),
		},
	}

	resp, err := r.client.Messages.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("retrieval agent: %w", err)
	}

	return Result{Raw: messageText(resp)}, nil
}

// retrieve queries the collection, clamping topK to the collection size
// because chromem rejects nResults larger than the document count.
func (r *Retrieval) retrieve(ctx context.Context, query string) ([]string, error) {
	count := r.collection.Count()
	if count == 0 {
		return nil, nil
	}

	n := r.topK
	if n > count {
		n = count
	}

	results, err := r.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query document index: %w", err)
	}

	docs := make([]string, 0, len(results))
	for _, res := range results {
		docs = append(docs, res.Content)
	}
	return docs, nil
}

func (r *Retrieval) systemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s", r.profile.Role, r.profile.Goal)
	if r.profile.Backstory != "" {
		b.WriteString("\n\n")
		b.WriteString(r.profile.Backstory)
	}
	fmt.Fprintf(&b,
		"\n\nAnswer only from the retrieved documents. If they do not contain the answer, respond with %q.",
		NoDocumentsAnswer)
	if r.profile.Expected != "" {
		b.WriteString("\n")
		b.WriteString(r.profile.Expected)
	}
	return b.String()
}
