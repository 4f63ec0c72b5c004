package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Game errors surfaced to the originating client as error{message} payloads.
// They are advisory only and never reach other players.
var (
	ErrRoomNotFound     = errors.New("Room not found")
	ErrRoomFull         = errors.New("Room is full")
	ErrGameInProgress   = errors.New("Game already in progress")
	ErrNotHost          = errors.New("Only the host can start the game")
	ErrNotEnoughPlayers = errors.New("Need at least 2 players to start")
	ErrNoActiveRound    = errors.New("No round in progress")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon())
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
