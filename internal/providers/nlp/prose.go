package nlp

import (
	"context"
	"fmt"

	"github.com/jdkato/prose/v2"
	"github.com/sandevgo/askbot/internal/core"
)

// ProseTagger tags English text with Penn Treebank part-of-speech labels.
// The tagging model is loaded once and shared read-only between calls.
type ProseTagger struct {
	model *prose.Model
}

func NewProseTagger() (*ProseTagger, error) {
	warm, err := prose.NewDocument("warm up",
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load tagging model: %w", err)
	}
	return &ProseTagger{model: warm.Model}, nil
}

func (p *ProseTagger) Tag(ctx context.Context, text string) ([]core.TaggedToken, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
		prose.UsingModel(p.model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to tag text: %w", err)
	}

	tokens := doc.Tokens()
	tagged := make([]core.TaggedToken, 0, len(tokens))
	for _, tok := range tokens {
		tagged = append(tagged, core.TaggedToken{Word: tok.Text, PartOfSpeech: tok.Tag})
	}
	return tagged, nil
}
