package bot

import (
	"fmt"
	"strings"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/conv"
)

// responseFormatter builds Slack mrkdwn replies.
type responseFormatter struct{}

func (f responseFormatter) Title(title string) string {
	return fmt.Sprintf("*%s*\n", conv.EscapeSlack(title))
}

func (f responseFormatter) Usage(command string) string {
	return fmt.Sprintf("*Usage*: `%s`\n", command)
}

func (f responseFormatter) Examples(examples []string) string {
	var sb strings.Builder
	sb.WriteString("*Examples*:\n")
	for _, ex := range examples {
		sb.WriteString(fmt.Sprintf("› `%s`\n", ex))
	}
	return sb.String()
}

func (f responseFormatter) Tip(text string) string {
	return fmt.Sprintf("*Tip*: %s\n", text)
}

func (f responseFormatter) Result(r core.SearchResult) string {
	lines := make([]string, 0, 3)
	if r.Title != "" {
		lines = append(lines, "*"+conv.EscapeSlack(r.Title)+"*")
	}
	if r.Snippet != "" {
		lines = append(lines, conv.EscapeSlack(r.Snippet))
	}
	if r.Link != "" {
		lines = append(lines, r.Link)
	}
	return strings.Join(lines, "\n")
}

func (f responseFormatter) Combine(sections ...string) string {
	return strings.TrimSpace(strings.Join(sections, "\n"))
}
