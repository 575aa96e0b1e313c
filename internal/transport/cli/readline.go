// Package cli is a local console transport. Each line is handled as a message
// in a single conversation and replies are printed back.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/chzyer/readline"
	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/log"
)

const (
	localTeam    = "local"
	localChannel = "console"
	localUser    = "you"
)

type Handler interface {
	Handle(ctx context.Context, msg core.Message) error
}

type ReadLine struct {
	handler Handler
	rl      *readline.Instance
	out     io.Writer
	seq     atomic.Int64
}

func NewReadLine(runtimePath string) (*ReadLine, error) {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ask> ",
		HistoryFile:     filepath.Join(runtimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		rl:  rl,
		out: rl.Stdout(),
	}, nil
}

// Attach sets the handler that receives console lines.
func (r *ReadLine) Attach(handler Handler) {
	r.handler = handler
}

func (r *ReadLine) Name() string {
	return "console"
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("console chat started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if err := r.handleLine(ctx, line); err != nil {
			logger.Error().Err(err).Msg("failed to handle message")
			fmt.Fprintf(r.out, "Error: %v\n", err)
		}
	}
}

func (r *ReadLine) handleLine(ctx context.Context, line string) error {
	if r.handler == nil {
		return fmt.Errorf("no handler attached")
	}
	return r.handler.Handle(ctx, core.Message{
		TeamID:    localTeam,
		ChannelID: localChannel,
		TS:        strconv.FormatInt(r.seq.Add(1), 10),
		UserID:    localUser,
		Text:      line,
	})
}

// Reply prints the bot's answer to the console.
func (r *ReadLine) Reply(_ context.Context, _ core.Message, text string) error {
	_, err := fmt.Fprintf(r.out, "%s\n", text)
	return err
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
