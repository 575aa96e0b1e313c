// Package history keeps a short rolling log of recent utterances per conversation.
package history

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sandevgo/askbot/internal/core"
)

const (
	DefaultSize             = 20
	DefaultMaxConversations = 1000

	// MinSize keeps room for the current message and one prior utterance.
	MinSize = 2
)

type History struct {
	mu    sync.Mutex
	size  int
	seq   int64
	convs *lru.Cache[string, *ring]
}

// New creates a history that keeps size utterances for each of at most
// maxConversations conversations. The least recently used conversation is
// forgotten when the limit is reached.
func New(size, maxConversations int) (*History, error) {
	if size < MinSize {
		return nil, fmt.Errorf("history size must be at least %d, got %d", MinSize, size)
	}
	convs, err := lru.New[string, *ring](maxConversations)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation cache: %w", err)
	}
	return &History{size: size, convs: convs}, nil
}

// Record appends text to the conversation, including empty text.
func (h *History) Record(conversation, text string) core.Utterance {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.convs.Get(conversation)
	if !ok {
		r = newRing(h.size)
		h.convs.Add(conversation, r)
	}

	h.seq++
	u := core.Utterance{Text: text, ArrivalIndex: h.seq}
	r.push(u)
	return u
}

// MostRecentPrior skips the newest excludingLast entries and returns the first
// earlier utterance with non-blank text.
func (h *History) MostRecentPrior(conversation string, excludingLast int) (core.Utterance, bool) {
	if excludingLast < 0 {
		excludingLast = 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.convs.Peek(conversation)
	if !ok {
		return core.Utterance{}, false
	}

	for i := excludingLast; i < r.len(); i++ {
		u := r.at(i)
		if strings.TrimSpace(u.Text) != "" {
			return u, true
		}
	}
	return core.Utterance{}, false
}

// Prior is MostRecentPrior skipping only the current message.
func (h *History) Prior(conversation string) (core.Utterance, bool) {
	return h.MostRecentPrior(conversation, 1)
}

// entries returns the retained utterances of a conversation, oldest first.
func (h *History) entries(conversation string) []core.Utterance {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.convs.Peek(conversation)
	if !ok {
		return nil
	}
	return r.snapshot()
}

func (h *History) conversations() int {
	return h.convs.Len()
}
