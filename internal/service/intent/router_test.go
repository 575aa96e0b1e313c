package intent

import (
	"context"
	"testing"

	"github.com/sandevgo/askbot/internal/core"
)

func noop(context.Context, core.Message, *Match) (string, error) { return "", nil }

func defaultRouter() *Router {
	return New(
		Route{Name: RouteSearch, Pattern: SearchPattern, Handler: noop},
		Route{Name: RouteGreeting, Pattern: Phrases(GreetingPhrases...), Handler: noop},
		Route{Name: RouteHelp, Pattern: HelpPattern, Handler: noop},
	)
}

func TestRouter_Match(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantMatch   bool
		wantRoute   string
		wantSubject string
	}{
		{"greeting", "hello there", true, RouteGreeting, "hello there"},
		{"greeting case-insensitive", "Bonjour!", true, RouteGreeting, "Bonjour!"},
		{"greeting word-bounded", "this is the highway", false, "", ""},
		{"search captures subject", "search capital of France", true, RouteSearch, "capital of France"},
		{"search with empty subject", "search ", true, RouteSearch, ""},
		{"search mid-sentence", "please search weather in Oslo", true, RouteSearch, "weather in Oslo"},
		{"help", "help", true, RouteHelp, "help"},
		{"search outranks greeting", "hey search cats", true, RouteSearch, "cats"},
		{"greeting word inside search", "search hi-fi amplifiers", true, RouteSearch, "hi-fi amplifiers"},
		{"no match", "what is its population", false, "", ""},
		{"empty text", "", false, "", ""},
	}

	r := defaultRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := r.Match(tt.text)
			if ok != tt.wantMatch {
				t.Fatalf("Match(%q) matched = %v, want %v", tt.text, ok, tt.wantMatch)
			}
			if !ok {
				return
			}
			if m.Route.Name != tt.wantRoute {
				t.Errorf("route = %q, want %q", m.Route.Name, tt.wantRoute)
			}
			if m.Subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", m.Subject, tt.wantSubject)
			}
		})
	}
}

func TestRouter_SkipsRoutesWithoutPattern(t *testing.T) {
	r := New(Route{Name: "broken"}, Route{Name: RouteHelp, Pattern: HelpPattern, Handler: noop})

	if got := len(r.routeTable()); got != 1 {
		t.Fatalf("routes = %d, want 1", got)
	}
	if _, ok := r.Match("help"); !ok {
		t.Fatal("expected help to match")
	}
}

func TestPhrases(t *testing.T) {
	re := Phrases("a.b", " ", "hi")
	if !re.MatchString("say A.B now") {
		t.Error("expected literal a.b to match case-insensitively")
	}
	if re.MatchString("axb") {
		t.Error("dot must be quoted")
	}
	if !re.MatchString("HI") {
		t.Error("expected hi to match")
	}
}
