// Package intent maps inbound message text to a handler through an ordered
// table of patterns. The first matching route wins.
package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/sandevgo/askbot/internal/core"
)

const (
	RouteGreeting = "greeting"
	RouteSearch   = "search"
	RouteHelp     = "help"
)

var (
	GreetingPhrases = []string{"hi", "hello", "howdy", "hey", "aloha", "hola", "bonjour", "oi"}
	SearchPattern   = regexp.MustCompile(`(?i)\bsearch (.*)`)
	HelpPattern     = Phrases("help")
)

type Handler func(ctx context.Context, msg core.Message, m *Match) (string, error)

type Route struct {
	Name    string
	Pattern *regexp.Regexp
	Handler Handler
}

type Match struct {
	Route    Route
	Captures []string
	// Subject is the first capture group when the pattern has one, else the whole text.
	Subject string
}

type Router struct {
	routes []Route
}

func New(routes ...Route) *Router {
	r := &Router{
		routes: make([]Route, 0, len(routes)),
	}
	for _, route := range routes {
		if route.Pattern == nil {
			continue
		}
		r.routes = append(r.routes, route)
	}
	return r
}

// Phrases compiles a list of literal words into a case-insensitive,
// word-bounded alternation.
func Phrases(words ...string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func (r *Router) Match(text string) (*Match, bool) {
	for _, route := range r.routes {
		captures := route.Pattern.FindStringSubmatch(text)
		if captures == nil {
			continue
		}

		subject := text
		if len(captures) > 1 {
			subject = captures[1]
		}
		return &Match{
			Route:    route,
			Captures: captures[1:],
			Subject:  subject,
		}, true
	}
	return nil, false
}

func (r *Router) routeTable() []Route {
	res := make([]Route, len(r.routes))
	copy(res, r.routes)
	return res
}
