package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/sandevgo/askbot/internal/core"
)

type echoHandler struct {
	replier core.Replier
	msgs    []core.Message
}

func (h *echoHandler) Handle(ctx context.Context, msg core.Message) error {
	h.msgs = append(h.msgs, msg)
	return h.replier.Reply(ctx, msg, "echo: "+msg.Text)
}

func TestReadLine_HandleLine(t *testing.T) {
	var out bytes.Buffer
	r := &ReadLine{out: &out}
	h := &echoHandler{replier: r}
	r.Attach(h)

	ctx := context.Background()
	if err := r.handleLine(ctx, "search cats"); err != nil {
		t.Fatalf("handleLine: %v", err)
	}
	if err := r.handleLine(ctx, "search dogs"); err != nil {
		t.Fatalf("handleLine: %v", err)
	}

	if got := out.String(); got != "echo: search cats\necho: search dogs\n" {
		t.Errorf("output = %q", got)
	}
	if len(h.msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(h.msgs))
	}
	if h.msgs[0].TS == h.msgs[1].TS {
		t.Error("each line must get its own timestamp")
	}
	if h.msgs[0].ChannelID != h.msgs[1].ChannelID {
		t.Error("console lines share one conversation")
	}
}

func TestReadLine_NoHandler(t *testing.T) {
	r := &ReadLine{out: &bytes.Buffer{}}
	if err := r.handleLine(context.Background(), "hi"); err == nil {
		t.Error("expected error without handler")
	}
}
