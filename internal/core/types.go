package core

import "time"

const (
	AskName      = "askbot"
	AskUserAgent = "askbot/0.1"
	AskVersion   = "0.1.0"
)

// Utterance is the text of one inbound message in arrival order.
type Utterance struct {
	Text         string `json:"text"`
	ArrivalIndex int64  `json:"arrival_index"`
}

type TaggedToken struct {
	Word         string `json:"word"`
	PartOfSpeech string `json:"pos"`
}

// ComposedQuery is the final string handed to the search collaborator.
type ComposedQuery struct {
	Text        string `json:"text"`
	UsedContext bool   `json:"used_context"`
}

type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Message is an inbound chat message normalized from the transport.
type Message struct {
	TeamID    string
	ChannelID string
	ThreadTS  string
	TS        string
	UserID    string
	Text      string
}

// Team holds the credentials obtained when a workspace installs the app.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	BotToken    string    `json:"bot_token"`
	BotUserID   string    `json:"bot_user_id"`
	InstalledAt time.Time `json:"installed_at"`
}
