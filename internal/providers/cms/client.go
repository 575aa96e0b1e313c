// Package cms asks a Botkit CMS instance whether a message triggers one of its
// scripted dialogs.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/conv"
	"github.com/sandevgo/askbot/pkg/log"
)

const triggersPath = "/api/v1/commands/triggers"

type Client struct {
	client  *http.Client
	baseURL string
	token   string
}

func New(uri, token string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(uri, "/"),
		token:   token,
	}
}

type triggerRequest struct {
	Triggers string `json:"triggers"`
	User     string `json:"user"`
	Channel  string `json:"channel"`
}

type scriptLine struct {
	Text []string `json:"text"`
}

type thread struct {
	Topic  string       `json:"topic"`
	Script []scriptLine `json:"script"`
}

type command struct {
	Command string   `json:"command"`
	Script  []thread `json:"script"`
}

// Claim reports whether the CMS owns msg. The reply is the first scripted
// line of the matched command, rendered as Slack mrkdwn.
func (c *Client) Claim(ctx context.Context, msg core.Message) (string, bool, error) {
	body, err := json.Marshal(triggerRequest{
		Triggers: msg.Text,
		User:     msg.UserID,
		Channel:  msg.ChannelID,
	})
	if err != nil {
		return "", false, fmt.Errorf("marshal: %w", err)
	}

	endpoint := c.baseURL + triggersPath + "?access_token=" + url.QueryEscape(c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", core.AskUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("failed to query cms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("cms returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", false, fmt.Errorf("failed to read body: %w", err)
	}

	// An unmatched trigger comes back as an empty object or a bare false.
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("null")) {
		return "", false, nil
	}

	var cmd command
	if err := json.Unmarshal(trimmed, &cmd); err != nil {
		return "", false, fmt.Errorf("failed to decode cms response: %w", err)
	}
	if cmd.Command == "" {
		return "", false, nil
	}

	log.FromCtx(ctx).Debug().Str("command", cmd.Command).Msg("message claimed by cms")
	return conv.MarkdownToSlack([]byte(firstLine(cmd))), true, nil
}

func firstLine(cmd command) string {
	for _, t := range cmd.Script {
		if t.Topic != "" && t.Topic != "default" {
			continue
		}
		for _, line := range t.Script {
			for _, text := range line.Text {
				if strings.TrimSpace(text) != "" {
					return text
				}
			}
		}
	}
	return ""
}
