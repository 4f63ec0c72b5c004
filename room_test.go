package main

import (
	"fmt"
	"testing"
)

// checkScoreKeys verifies the invariant that scores tracks exactly the
// present players.
func checkScoreKeys(t *testing.T, r *Room) {
	t.Helper()

	if len(r.scores) != len(r.players) {
		t.Fatalf("scores has %d keys, players has %d", len(r.scores), len(r.players))
	}
	for _, p := range r.players {
		if _, ok := r.scores[p.ID]; !ok {
			t.Fatalf("player %s missing from scores", p.ID)
		}
	}
}

func TestAddPlayer(t *testing.T) {
	r := newRoom("ROOM1", "host")

	if err := r.addPlayerLocked("host", "alice"); err != nil {
		t.Fatalf("addPlayer: %v", err)
	}

	if !r.players[0].IsHost {
		t.Error("creator should be host")
	}
	if r.scores["host"] != 0 {
		t.Error("new player score should start at 0")
	}
	checkScoreKeys(t, r)
}

func TestAddPlayerRoomFull(t *testing.T) {
	r := newRoom("ROOM1", "p0")

	for i := 0; i < maxPlayers; i++ {
		if err := r.addPlayerLocked(fmt.Sprintf("p%d", i), "nick"); err != nil {
			t.Fatalf("addPlayer %d: %v", i, err)
		}
	}

	err := r.addPlayerLocked("p6", "late")
	if err != ErrRoomFull {
		t.Fatalf("err = %v, want ErrRoomFull", err)
	}
	if len(r.players) != maxPlayers {
		t.Errorf("players = %d after rejected join, want %d", len(r.players), maxPlayers)
	}
	checkScoreKeys(t, r)
}

func TestAddPlayerGameInProgress(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")
	r.addPlayerLocked("b", "bob")

	if err := r.startGameLocked(); err != nil {
		t.Fatalf("startGame: %v", err)
	}

	if err := r.addPlayerLocked("c", "carol"); err != ErrGameInProgress {
		t.Fatalf("err = %v, want ErrGameInProgress", err)
	}
}

func TestStartGameRequiresTwoPlayers(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")

	if err := r.startGameLocked(); err != ErrNotEnoughPlayers {
		t.Fatalf("err = %v, want ErrNotEnoughPlayers", err)
	}
	if r.state != stateWaiting {
		t.Errorf("state = %s after failed start, want waiting", r.state)
	}
}

func TestStartGameTransitions(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")
	r.addPlayerLocked("b", "bob")

	if err := r.startGameLocked(); err != nil {
		t.Fatalf("startGame: %v", err)
	}
	if r.state != statePlaying || r.currentRound != 1 {
		t.Errorf("state=%s round=%d, want playing round 1", r.state, r.currentRound)
	}

	// No cycle back to waiting, no double start.
	if err := r.startGameLocked(); err != ErrGameInProgress {
		t.Fatalf("second start err = %v, want ErrGameInProgress", err)
	}
}

func TestHostMigration(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")
	r.addPlayerLocked("b", "bob")
	r.addPlayerLocked("c", "carol")

	empty := r.removePlayerLocked("a")

	if empty {
		t.Fatal("room with remaining players reported empty")
	}
	if r.hostID != "b" {
		t.Errorf("hostID = %s, want b (earliest remaining)", r.hostID)
	}
	if !r.players[0].IsHost {
		t.Error("new host's flag not set")
	}
	checkScoreKeys(t, r)
}

func TestRemoveNonHostKeepsHost(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")
	r.addPlayerLocked("b", "bob")
	r.addPlayerLocked("c", "carol")

	r.removePlayerLocked("b")

	if r.hostID != "a" {
		t.Errorf("hostID = %s, want a", r.hostID)
	}
	checkScoreKeys(t, r)
}

func TestRemoveLastPlayer(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")

	if empty := r.removePlayerLocked("a"); !empty {
		t.Error("removing the last player should report the room empty")
	}
	checkScoreKeys(t, r)
}

func TestRemovePlayerClearsSubmission(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")
	r.addPlayerLocked("b", "bob")
	r.startGameLocked()
	r.roundActive = true

	r.submitWordLocked("a", "cat")
	r.removePlayerLocked("a")

	if _, ok := r.submissions["a"]; ok {
		t.Error("submission survived player removal")
	}
	if len(r.subOrder) != 0 {
		t.Error("submission order survived player removal")
	}
}

func TestSubmitWordNormalizesAndOverwrites(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")
	r.addPlayerLocked("b", "bob")
	r.startGameLocked()
	r.roundActive = true

	complete, err := r.submitWordLocked("a", " Dog\t")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if complete {
		t.Error("1 of 2 submissions should not complete the set")
	}
	if r.submissions["a"] != "dog" {
		t.Errorf("stored %q, want %q", r.submissions["a"], "dog")
	}

	// Last write wins; arrival position is kept.
	if _, err := r.submitWordLocked("a", "CAT"); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if r.submissions["a"] != "cat" {
		t.Errorf("resubmit stored %q, want %q", r.submissions["a"], "cat")
	}
	if len(r.subOrder) != 1 || r.subOrder[0] != "a" {
		t.Errorf("subOrder = %v, want [a]", r.subOrder)
	}

	complete, err = r.submitWordLocked("b", "cat")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !complete {
		t.Error("final submission should complete the set")
	}
}

func TestSubmitWordOutsideRound(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")
	r.addPlayerLocked("b", "bob")

	if _, err := r.submitWordLocked("a", "cat"); err != ErrNoActiveRound {
		t.Fatalf("err = %v, want ErrNoActiveRound", err)
	}

	// Playing, but between rounds.
	r.startGameLocked()
	if _, err := r.submitWordLocked("a", "cat"); err != ErrNoActiveRound {
		t.Fatalf("err = %v, want ErrNoActiveRound", err)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")
	r.addPlayerLocked("b", "bob")

	snap := r.snapshotLocked()

	snap.Players[0].Nickname = "mallory"
	snap.Scores["a"] = 999

	if r.players[0].Nickname != "alice" {
		t.Error("snapshot shares the players slice")
	}
	if r.scores["a"] != 0 {
		t.Error("snapshot shares the scores map")
	}
}

func TestFinalResultOrdering(t *testing.T) {
	r := newRoom("ROOM1", "a")
	r.addPlayerLocked("a", "alice")
	r.addPlayerLocked("b", "bob")
	r.addPlayerLocked("c", "carol")
	r.scores["a"] = 10
	r.scores["b"] = 30
	r.scores["c"] = 10

	final := r.finalResultLocked()

	got := []string{final.FinalScores[0].PlayerID, final.FinalScores[1].PlayerID, final.FinalScores[2].PlayerID}
	// b leads; a and c tie and keep join order.
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("final order = %v, want %v", got, want)
		}
	}
}
