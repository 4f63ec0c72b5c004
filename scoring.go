package main

import "strings"

const pointsPerMatcher = 10

// Match records a group of 2+ players who converged on the same word.
type Match struct {
	Word    string   `json:"word"`
	Players []string `json:"players"`
	Points  int      `json:"points"`
}

type submission struct {
	playerID string
	word     string
}

// normalizeWord folds a raw submission into its canonical form. Matching is
// whitespace- and case-insensitive.
func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// scoreRound groups submissions by word and turns every group of two or more
// into a Match worth len(group)*10 points per member. Empty submissions never
// group, match, or win. Matches come back in first-seen word order, and the
// verdict is true only when a single group covers every present player.
//
// Pure function: same input, same output, no side effects.
func scoreRound(subs []submission, playerCount int) ([]Match, bool) {
	groups := make(map[string][]string)
	order := make([]string, 0, len(subs))

	for _, s := range subs {
		if s.word == "" {
			continue
		}
		if _, seen := groups[s.word]; !seen {
			order = append(order, s.word)
		}
		groups[s.word] = append(groups[s.word], s.playerID)
	}

	matches := []Match{}
	won := false

	for _, word := range order {
		players := groups[word]

		// Unanimity is judged on every non-empty group, even a group of
		// one: a lone remaining player matching themselves ends the game.
		if playerCount > 0 && len(players) == playerCount {
			won = true
		}

		if len(players) < 2 {
			continue
		}

		matches = append(matches, Match{
			Word:    word,
			Players: players,
			Points:  len(players) * pointsPerMatcher,
		})
	}

	return matches, won
}
