package conv

import (
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

var extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock

// MarkdownToSlack renders Markdown as Slack mrkdwn.
func MarkdownToSlack(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	var sb strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				sb.WriteString(EscapeSlack(string(n.Literal)))
			}
		case *ast.Strong:
			sb.WriteString("*")
		case *ast.Emph:
			sb.WriteString("_")
		case *ast.Del:
			sb.WriteString("~")
		case *ast.Code:
			if entering {
				sb.WriteString("`" + string(n.Literal) + "`")
			}
		case *ast.CodeBlock:
			if entering {
				ensureNewline(&sb)
				sb.WriteString("```\n" + string(n.Literal) + "```\n\n")
			}
		case *ast.Link:
			if entering {
				sb.WriteString("<" + string(n.Destination) + "|")
			} else {
				sb.WriteString(">")
			}
		case *ast.Heading:
			if entering {
				sb.WriteString("*")
			} else {
				sb.WriteString("*\n\n")
			}
		case *ast.BlockQuote:
			if entering {
				sb.WriteString("> ")
			}
		case *ast.ListItem:
			if entering {
				sb.WriteString("• ")
			} else {
				ensureNewline(&sb)
			}
		case *ast.Paragraph:
			if !entering {
				ensureNewline(&sb)
				if _, inItem := n.Parent.(*ast.ListItem); !inItem {
					sb.WriteString("\n")
				}
			}
		case *ast.Hardbreak, *ast.Softbreak:
			sb.WriteString("\n")
		case *ast.HTMLSpan, *ast.HTMLBlock:
			// raw HTML is dropped
		}
		return ast.GoToNext
	})

	return strings.TrimSpace(sb.String())
}

func ensureNewline(sb *strings.Builder) {
	s := sb.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		sb.WriteString("\n")
	}
}

var slackEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeSlack escapes the three control characters of Slack message text.
func EscapeSlack(s string) string {
	return slackEscaper.Replace(s)
}
