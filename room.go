package main

import (
	"sort"
	"sync"
	"time"
)

const (
	maxPlayers = 6
	minPlayers = 2
)

const (
	stateWaiting  = "waiting"
	statePlaying  = "playing"
	stateFinished = "finished"
)

// Player holds the data we store server-side for one room member.
type Player struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	IsHost    bool   `json:"isHost"`
	Connected bool   `json:"connected"`
}

// Room is one isolated game session. All mutations go through its mutex;
// methods with the Locked suffix assume mu is already held.
type Room struct {
	id     string
	hostID string

	state        string
	currentRound int

	players     []Player          // insertion order, drives host succession
	scores      map[string]int    // keys always mirror players
	submissions map[string]string // playerID -> normalized word, cleared per round
	subOrder    []string          // playerIDs in first-submission order

	roundResults []RoundResult

	// Round timing. roundSeq is bumped on every round start and every round
	// end, so a stale timer or countdown compares unequal and no-ops.
	roundSeq      int
	roundActive   bool
	roundDeadline time.Time
	timer         *time.Timer

	clients map[*Client]bool

	// closed marks a room removed from the registry; a Get that raced the
	// removal must treat it as gone.
	closed bool

	createdAt  time.Time
	lastActive time.Time

	mu sync.Mutex
}

func newRoom(roomID, hostID string) *Room {
	now := time.Now()
	return &Room{
		id:          roomID,
		hostID:      hostID,
		state:       stateWaiting,
		scores:      make(map[string]int),
		submissions: make(map[string]string),
		clients:     make(map[*Client]bool),
		createdAt:   now,
		lastActive:  now,
	}
}

func (r *Room) touchLocked() {
	r.lastActive = time.Now()
}

func (r *Room) playerIndexLocked(playerID string) int {
	for i := range r.players {
		if r.players[i].ID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) addPlayerLocked(playerID, nickname string) error {
	if idx := r.playerIndexLocked(playerID); idx != -1 {
		r.players[idx].Nickname = nickname
		return nil
	}

	if len(r.players) >= maxPlayers {
		return ErrRoomFull
	}
	if r.state != stateWaiting {
		return ErrGameInProgress
	}

	r.players = append(r.players, Player{
		ID:        playerID,
		Nickname:  nickname,
		IsHost:    playerID == r.hostID,
		Connected: true,
	})
	r.scores[playerID] = 0

	return nil
}

// removePlayerLocked deletes the player along with their score and any
// pending submission. The earliest-joined remaining player inherits the host
// role. Returns true when the room is now empty.
func (r *Room) removePlayerLocked(playerID string) bool {
	idx := r.playerIndexLocked(playerID)
	if idx == -1 {
		return len(r.players) == 0
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	delete(r.scores, playerID)
	delete(r.submissions, playerID)

	for i, id := range r.subOrder {
		if id == playerID {
			r.subOrder = append(r.subOrder[:i], r.subOrder[i+1:]...)
			break
		}
	}

	if len(r.players) == 0 {
		return true
	}

	if playerID == r.hostID {
		r.hostID = r.players[0].ID
		r.players[0].IsHost = true
	}

	return false
}

func (r *Room) startGameLocked() error {
	if r.state != stateWaiting {
		return ErrGameInProgress
	}
	if len(r.players) < minPlayers {
		return ErrNotEnoughPlayers
	}

	r.state = statePlaying
	r.currentRound = 1

	return nil
}

// submitWordLocked stores the normalized word for playerID. Re-submission
// before round end overwrites the earlier entry but keeps its original
// position in arrival order. Returns true when every present player has
// submitted.
func (r *Room) submitWordLocked(playerID, word string) (bool, error) {
	if r.state != statePlaying || !r.roundActive {
		return false, ErrNoActiveRound
	}

	if _, exists := r.submissions[playerID]; !exists {
		r.subOrder = append(r.subOrder, playerID)
	}
	r.submissions[playerID] = normalizeWord(word)

	return len(r.submissions) == len(r.players), nil
}

func (r *Room) orderedSubmissionsLocked() []submission {
	subs := make([]submission, 0, len(r.subOrder))
	for _, playerID := range r.subOrder {
		subs = append(subs, submission{playerID: playerID, word: r.submissions[playerID]})
	}
	return subs
}

func (r *Room) timeLeftLocked(now time.Time) time.Duration {
	if !r.roundActive || now.After(r.roundDeadline) {
		return 0
	}
	return r.roundDeadline.Sub(now)
}

// snapshotLocked builds the broadcast projection: copies only, no internal
// references.
func (r *Room) snapshotLocked() GameStateMessage {
	players := make([]Player, len(r.players))
	copy(players, r.players)

	scores := make(map[string]int, len(r.scores))
	for id, score := range r.scores {
		scores[id] = score
	}

	return GameStateMessage{
		Type:         "game-state",
		ID:           r.id,
		HostID:       r.hostID,
		Players:      players,
		GameState:    r.state,
		CurrentRound: r.currentRound,
		Scores:       scores,
		TimeLeft:     r.timeLeftLocked(time.Now()).Milliseconds(),
	}
}

// finalResultLocked sorts scores descending; ties keep join order.
func (r *Room) finalResultLocked() FinalResult {
	finalScores := make([]FinalScore, 0, len(r.players))
	for _, p := range r.players {
		finalScores = append(finalScores, FinalScore{
			PlayerID: p.ID,
			Nickname: p.Nickname,
			Score:    r.scores[p.ID],
		})
	}

	sort.SliceStable(finalScores, func(i, j int) bool {
		return finalScores[i].Score > finalScores[j].Score
	})

	results := make([]RoundResult, len(r.roundResults))
	copy(results, r.roundResults)

	return FinalResult{
		FinalScores:  finalScores,
		RoundResults: results,
	}
}

func (r *Room) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// broadcastLocked fans msg out to every connected client; clients that
// cannot keep up are dropped.
func (r *Room) broadcastLocked(msg any) {
	for client := range r.clients {
		if !client.trySend(msg) {
			delete(r.clients, client)
			client.close()
		}
	}
}
