package main

import (
	"strings"
	"testing"
)

func TestRoomIDFormat(t *testing.T) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	for i := 0; i < 100; i++ {
		id := randomRoomID(roomIDLength)
		if len(id) != roomIDLength {
			t.Fatalf("id %q has length %d, want %d", id, len(id), roomIDLength)
		}
		for _, c := range id {
			if !strings.ContainsRune(letters, c) {
				t.Fatalf("id %q contains unexpected character %q", id, c)
			}
		}
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	rr := newRoomRegistry()
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		room := rr.Create("host")
		if seen[room.id] {
			t.Fatalf("duplicate room id %q", room.id)
		}
		seen[room.id] = true
	}

	if rr.Len() != 100 {
		t.Errorf("registry has %d rooms, want 100", rr.Len())
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	rr := newRoomRegistry()
	room := rr.Create("host")

	got, ok := rr.Get(strings.ToLower(room.id))
	if !ok || got != room {
		t.Errorf("lowercase lookup of %q failed", room.id)
	}

	if _, ok := rr.Get("NOPE1234"); ok {
		t.Error("lookup of unknown id succeeded")
	}
}

func TestRemoveRoom(t *testing.T) {
	rr := newRoomRegistry()
	room := rr.Create("host")

	rr.Remove(strings.ToLower(room.id))

	if _, ok := rr.Get(room.id); ok {
		t.Error("room still present after Remove")
	}
	if rr.Len() != 0 {
		t.Errorf("registry has %d rooms, want 0", rr.Len())
	}
}

func TestPlayerRegistry(t *testing.T) {
	pr := newPlayerRegistry()

	pr.Set("p1", "ROOM1", "alice")

	info, ok := pr.Get("p1")
	if !ok {
		t.Fatal("Get after Set failed")
	}
	if info.roomID != "ROOM1" || info.nickname != "alice" {
		t.Errorf("info = %+v", info)
	}

	pr.Remove("p1")
	if _, ok := pr.Get("p1"); ok {
		t.Error("player still present after Remove")
	}
}
