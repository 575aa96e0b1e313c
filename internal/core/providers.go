package core

import "context"

type Tagger interface {
	Tag(ctx context.Context, text string) ([]TaggedToken, error)
}

type Searcher interface {
	Search(ctx context.Context, query string) (SearchResult, error)
}

// Claimer is an optional dialog collaborator that may take over a message.
type Claimer interface {
	Claim(ctx context.Context, msg Message) (reply string, claimed bool, err error)
}

type Replier interface {
	Reply(ctx context.Context, msg Message, text string) error
}
