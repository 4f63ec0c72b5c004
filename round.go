package main

import (
	"time"
)

// Manager routes player intents to rooms and drives the round lifecycle:
// the timer-vs-all-submitted race, the inter-round countdown, and the idle
// reaper. Intents for one room are serialized by that room's mutex; rooms
// proceed independently.
type Manager struct {
	cfg     *Config
	rooms   *RoomRegistry
	players *PlayerRegistry
}

func newManager(cfg *Config) *Manager {
	m := &Manager{
		cfg:     cfg,
		rooms:   newRoomRegistry(),
		players: newPlayerRegistry(),
	}

	if cfg.sessionTimeout > 0 {
		go m.reaperLoop()
	}

	return m
}

func (m *Manager) CreateRoom(c *Client, nickname string) {
	room := m.rooms.Create(c.id)

	room.mu.Lock()
	defer room.mu.Unlock()

	room.clients[c] = true
	_ = room.addPlayerLocked(c.id, nickname)
	m.players.Set(c.id, room.id, nickname)

	logf(m.cfg, "GAMES: %q created room %s", nickname, room.id)

	c.trySend(RoomCreatedMessage{Type: "room-created", RoomID: room.id})
	room.broadcastLocked(room.snapshotLocked())
}

func (m *Manager) JoinRoom(c *Client, roomID, nickname string) {
	room, ok := m.rooms.Get(roomID)
	if !ok {
		c.trySend(ErrorMessage{Type: "error", Message: ErrRoomNotFound.Error()})
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		c.trySend(ErrorMessage{Type: "error", Message: ErrRoomNotFound.Error()})
		return
	}

	room.touchLocked()

	if err := room.addPlayerLocked(c.id, nickname); err != nil {
		c.trySend(ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	room.clients[c] = true
	m.players.Set(c.id, room.id, nickname)

	logf(m.cfg, "GAMES: %q joined room %s", nickname, room.id)

	c.trySend(RoomJoinedMessage{Type: "room-joined", RoomID: room.id})
	room.broadcastLocked(room.snapshotLocked())
}

func (m *Manager) StartGame(c *Client) {
	info, ok := m.players.Get(c.id)
	if !ok {
		return
	}

	room, ok := m.rooms.Get(info.roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return
	}

	room.touchLocked()

	if room.hostID != c.id {
		c.trySend(ErrorMessage{Type: "error", Message: ErrNotHost.Error()})
		return
	}

	if err := room.startGameLocked(); err != nil {
		c.trySend(ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	logf(m.cfg, "GAMES: Room %s started with %d players", room.id, len(room.players))

	room.broadcastLocked(GameStartedMessage{Type: "game-started"})
	room.broadcastLocked(room.snapshotLocked())

	m.startRoundLocked(room)
}

func (m *Manager) SubmitWord(c *Client, word string) {
	info, ok := m.players.Get(c.id)
	if !ok {
		return
	}

	room, ok := m.rooms.Get(info.roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	room.touchLocked()

	complete, err := room.submitWordLocked(c.id, word)
	if err != nil {
		c.trySend(ErrorMessage{Type: "error", Message: err.Error()})
		return
	}

	room.broadcastLocked(WordSubmittedMessage{
		Type:     "word-submitted",
		PlayerID: c.id,
		Nickname: info.nickname,
	})

	if complete {
		m.endRoundLocked(room, room.roundSeq)
	}
}

func (m *Manager) Disconnect(c *Client) {
	info, ok := m.players.Get(c.id)
	m.players.Remove(c.id)

	if !ok {
		c.close()
		return
	}

	room, ok := m.rooms.Get(info.roomID)
	if !ok {
		c.close()
		return
	}

	room.mu.Lock()

	if room.clients[c] {
		delete(room.clients, c)
	}
	c.close()

	empty := room.removePlayerLocked(c.id)

	logf(m.cfg, "GAMES: %q left room %s", info.nickname, room.id)

	if empty {
		room.closed = true
		room.roundActive = false
		room.stopTimerLocked()
		room.mu.Unlock()

		m.rooms.Remove(info.roomID)
		logf(m.cfg, "GAMES: Removed empty room %s", info.roomID)
		return
	}

	room.broadcastLocked(room.snapshotLocked())

	// The departure may have completed the submission set for the players
	// still present; the round then ends now rather than at the timer.
	if room.state == statePlaying && room.roundActive && len(room.submissions) == len(room.players) {
		m.endRoundLocked(room, room.roundSeq)
	}

	room.mu.Unlock()
}

// startRoundLocked clears the previous round's submissions, arms the expiry
// timer, and announces the round. Any earlier timer is cancelled first, so
// at most one is outstanding per room.
func (m *Manager) startRoundLocked(room *Room) {
	room.submissions = make(map[string]string)
	room.subOrder = nil
	room.roundSeq++
	room.roundActive = true
	room.roundDeadline = time.Now().Add(m.cfg.roundTime)

	room.stopTimerLocked()

	seq := room.roundSeq
	roomID := room.id
	room.timer = time.AfterFunc(m.cfg.roundTime, func() {
		m.roundExpired(roomID, seq)
	})

	room.broadcastLocked(RoundStartedMessage{
		Type:     "round-started",
		Round:    room.currentRound,
		TimeLeft: m.cfg.roundTime.Milliseconds(),
	})
}

// roundExpired is the timer callback. The room may have been removed since
// the timer was armed; that is a no-op, not an error.
func (m *Manager) roundExpired(roomID string, seq int) {
	room, ok := m.rooms.Get(roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	m.endRoundLocked(room, seq)
}

// endRoundLocked runs round-end processing exactly once per round: the seq
// comparison rejects whichever of the two racing triggers (expiry timer,
// final submission) arrives second, as well as timers left over from earlier
// rounds.
func (m *Manager) endRoundLocked(room *Room, seq int) {
	if room.closed || room.state != statePlaying || !room.roundActive || seq != room.roundSeq {
		return
	}

	room.roundActive = false
	room.roundSeq++
	room.stopTimerLocked()

	matches, won := scoreRound(room.orderedSubmissionsLocked(), len(room.players))

	for _, match := range matches {
		for _, playerID := range match.Players {
			room.scores[playerID] += match.Points
		}
	}

	submissions := make(map[string]string, len(room.submissions))
	for playerID, word := range room.submissions {
		submissions[playerID] = word
	}
	scores := make(map[string]int, len(room.scores))
	for playerID, score := range room.scores {
		scores[playerID] = score
	}

	result := RoundResult{
		Round:       room.currentRound,
		Submissions: submissions,
		Matches:     matches,
		Scores:      scores,
	}
	room.roundResults = append(room.roundResults, result)

	room.broadcastLocked(RoundEndedMessage{Type: "round-ended", RoundResult: result})

	if won {
		room.state = stateFinished
		logf(m.cfg, "GAMES: Room %s finished after %d rounds", room.id, room.currentRound)
		room.broadcastLocked(GameEndedMessage{Type: "game-ended", FinalResult: room.finalResultLocked()})
		return
	}

	room.broadcastLocked(room.snapshotLocked())

	go m.runCountdown(room.id, room.roundSeq)
}

// runCountdown broadcasts the descending inter-round sequence once per tick,
// then starts the next round. It re-checks the room on every tick and backs
// off if the room is gone or the game has moved on.
func (m *Manager) runCountdown(roomID string, endSeq int) {
	for tick := m.cfg.countdownTicks; tick >= 0; tick-- {
		room, ok := m.rooms.Get(roomID)
		if !ok {
			return
		}

		room.mu.Lock()
		if room.closed || room.state != statePlaying || room.roundSeq != endSeq {
			room.mu.Unlock()
			return
		}
		room.broadcastLocked(CountdownMessage{Type: "next-round-countdown", Countdown: tick})
		room.mu.Unlock()

		time.Sleep(m.cfg.countdownInterval)
	}

	room, ok := m.rooms.Get(roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed || room.state != statePlaying || room.roundSeq != endSeq {
		return
	}

	room.currentRound++
	m.startRoundLocked(room)
}

// reaperLoop periodically removes rooms idle longer than the configured
// session timeout, cancelling their timers so nothing fires against removed
// state.
func (m *Manager) reaperLoop() {
	ticker := time.NewTicker(m.cfg.sessionTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-m.cfg.sessionTimeout)

		for _, room := range m.rooms.list() {
			room.mu.Lock()

			if room.lastActive.After(cutoff) {
				room.mu.Unlock()
				continue
			}

			room.closed = true
			room.roundActive = false
			room.stopTimerLocked()

			for client := range room.clients {
				delete(room.clients, client)
				client.close()
			}

			roomID := room.id
			room.mu.Unlock()

			m.rooms.Remove(roomID)
			logf(m.cfg, "GAMES: Reaped idle room %s", roomID)
		}
	}
}
