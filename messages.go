package main

// Messages coming from clients
type ClientMessage struct {
	Type     string `json:"type"`               // "create-room", "join-room", "start-game", "submit-word"
	Nickname string `json:"nickname,omitempty"` // create-room / join-room
	RoomID   string `json:"roomId,omitempty"`   // join-room
	Word     string `json:"word,omitempty"`     // submit-word
}

// Sent to the creating client once its room exists.
type RoomCreatedMessage struct {
	Type   string `json:"type"` // "room-created"
	RoomID string `json:"roomId"`
}

// Sent to the joining client once it is in the room.
type RoomJoinedMessage struct {
	Type   string `json:"type"` // "room-joined"
	RoomID string `json:"roomId"`
}

// Sent to a single client when its intent is rejected.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// GameStateMessage is the read-only room projection broadcast after every
// committed mutation. It carries copies only, never live references.
type GameStateMessage struct {
	Type         string         `json:"type"` // "game-state"
	ID           string         `json:"id"`
	HostID       string         `json:"hostId"`
	Players      []Player       `json:"players"`
	GameState    string         `json:"gameState"`
	CurrentRound int            `json:"currentRound"`
	Scores       map[string]int `json:"scores"`
	TimeLeft     int64          `json:"timeLeft"` // milliseconds until round expiry, 0 when no round is active
}

type GameStartedMessage struct {
	Type string `json:"type"` // "game-started"
}

type RoundStartedMessage struct {
	Type     string `json:"type"` // "round-started"
	Round    int    `json:"round"`
	TimeLeft int64  `json:"timeLeft"`
}

// Broadcast when a player locks in a word; the word itself stays hidden
// until the round ends.
type WordSubmittedMessage struct {
	Type     string `json:"type"` // "word-submitted"
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

type RoundEndedMessage struct {
	Type string `json:"type"` // "round-ended"
	RoundResult
}

type CountdownMessage struct {
	Type      string `json:"type"` // "next-round-countdown"
	Countdown int    `json:"countdown"`
}

type GameEndedMessage struct {
	Type string `json:"type"` // "game-ended"
	FinalResult
}

// RoundResult is the immutable record of one completed round.
type RoundResult struct {
	Round       int               `json:"round"`
	Submissions map[string]string `json:"submissions"`
	Matches     []Match           `json:"matches"`
	Scores      map[string]int    `json:"scores"`
}

// FinalResult is built once, when the win condition fires.
type FinalResult struct {
	FinalScores  []FinalScore  `json:"finalScores"`
	RoundResults []RoundResult `json:"roundResults"`
}

type FinalScore struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}
