// Package pronoun decides whether a question leans on an antecedent from
// an earlier utterance.
package pronoun

import (
	"context"
	"strings"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/log"
)

// personalPronoun is the Penn Treebank tag class for personal pronouns.
// PRP$ (possessive) shares the prefix and is counted.
const personalPronoun = "PRP"

type Detector struct {
	tagger core.Tagger
}

func NewDetector(tagger core.Tagger) *Detector {
	return &Detector{tagger: tagger}
}

// IsAnaphoric reports whether question contains a personal pronoun.
// Any tagging failure is treated as "not anaphoric".
func (d *Detector) IsAnaphoric(ctx context.Context, question string) (anaphoric bool) {
	if strings.TrimSpace(question) == "" {
		return false
	}

	logger := log.FromCtx(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Debug().Str("question", question).Msgf("tagger panicked: %v", r)
			anaphoric = false
		}
	}()

	tokens, err := d.tagger.Tag(ctx, question)
	if err != nil {
		logger.Debug().Err(err).Str("question", question).Msg("tagging failed, assuming self-contained")
		return false
	}

	for _, tok := range tokens {
		if strings.HasPrefix(tok.PartOfSpeech, personalPronoun) {
			logger.Debug().Str("token", tok.Word).Str("tag", tok.PartOfSpeech).Msg("pronoun found")
			return true
		}
	}
	return false
}
