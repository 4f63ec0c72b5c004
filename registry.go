package main

import (
	"crypto/rand"
	"strings"
	"sync"
)

const roomIDLength = 8

// RoomRegistry owns the set of live rooms, keyed by their short codes.
// Lookups are case-insensitive; stored ids are always uppercase.
type RoomRegistry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func newRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*Room),
	}
}

// Create generates a crypto-random room id, regenerating on collision so the
// returned room is guaranteed unique, and registers it atomically.
func (rr *RoomRegistry) Create(hostID string) *Room {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	var roomID string
	for {
		roomID = randomRoomID(roomIDLength)
		if _, exists := rr.rooms[roomID]; !exists {
			break
		}
	}

	room := newRoom(roomID, hostID)
	rr.rooms[roomID] = room

	return room
}

func (rr *RoomRegistry) Get(roomID string) (*Room, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	room, ok := rr.rooms[strings.ToUpper(roomID)]

	return room, ok
}

func (rr *RoomRegistry) Remove(roomID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.rooms, strings.ToUpper(roomID))
}

func (rr *RoomRegistry) Len() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	return len(rr.rooms)
}

// list returns the current rooms; used by the idle reaper.
func (rr *RoomRegistry) list() []*Room {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rooms := make([]*Room, 0, len(rr.rooms))
	for _, room := range rr.rooms {
		rooms = append(rooms, room)
	}

	return rooms
}

func randomRoomID(n int) string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}

	out := make([]byte, n)
	for i := range out {
		out[i] = letters[int(buf[i])%len(letters)]
	}

	return string(out)
}

type playerInfo struct {
	roomID   string
	nickname string
}

// PlayerRegistry maps a connection identity to its room and nickname. Pure
// lookup table, shared across rooms, safe for concurrent use.
type PlayerRegistry struct {
	mu      sync.Mutex
	players map[string]playerInfo
}

func newPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{
		players: make(map[string]playerInfo),
	}
}

func (pr *PlayerRegistry) Set(playerID, roomID, nickname string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.players[playerID] = playerInfo{roomID: roomID, nickname: nickname}
}

func (pr *PlayerRegistry) Get(playerID string) (playerInfo, bool) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	info, ok := pr.players[playerID]

	return info, ok
}

func (pr *PlayerRegistry) Remove(playerID string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	delete(pr.players, playerID)
}
