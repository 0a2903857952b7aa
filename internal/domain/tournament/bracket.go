package tournament

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Bye fills the empty slot of a first-round walkover.
const Bye = "BYE"

const placeholderPrefix = "Winner of "

var (
	ErrTooFewPlayers   = errors.New("a tournament needs at least two players")
	ErrDuplicatePlayer = errors.New("duplicate tournament player")
	ErrUnknownMatch    = errors.New("unknown bracket match")
	ErrMatchDecided    = errors.New("bracket match already has a winner")
	ErrMatchNotReady   = errors.New("bracket match is waiting for an earlier result")
	ErrWinnerNotInSlot = errors.New("winner is not playing in this match")
)

// Match is one bracket game. A slot holds a player name, Bye, or a
// placeholder pointing at an earlier match.
type Match struct {
	ID     string `json:"id"`
	P1     string `json:"p1"`
	P2     string `json:"p2"`
	Winner string `json:"winner,omitempty"`
}

// Bracket stores every round, first round first.
type Bracket struct {
	Rounds [][]Match `json:"rounds"`
}

func matchID(round, index int) string {
	return fmt.Sprintf("R%dM%d", round, index)
}

// Placeholder is the slot text for the winner of matchID.
func Placeholder(matchID string) string {
	return placeholderPrefix + matchID
}

// SourceOf returns the match a placeholder slot waits for.
func SourceOf(slot string) (string, bool) {
	return strings.CutPrefix(slot, placeholderPrefix)
}

func resolved(slot string) bool {
	_, pending := SourceOf(slot)
	return !pending && slot != ""
}

// Generate seeds names into a single-elimination bracket. shuffle reorders
// the names in place and may be nil to keep the given order. The first
// nextPow2(n)-n seeds receive byes.
func Generate(names []string, shuffle func([]string)) (Bracket, error) {
	players := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return Bracket{}, errors.Wrapf(ErrDuplicatePlayer, "%q", name)
		}
		seen[name] = struct{}{}
		players = append(players, name)
	}
	if len(players) < 2 {
		return Bracket{}, ErrTooFewPlayers
	}
	if shuffle != nil {
		shuffle(players)
	}

	size := 1
	for size < len(players) {
		size *= 2
	}
	byes := size - len(players)

	first := make([]Match, 0, size/2)
	for _, name := range players[:byes] {
		first = append(first, Match{ID: matchID(1, len(first)+1), P1: name, P2: Bye, Winner: name})
	}
	rest := players[byes:]
	for i := 0; i+1 < len(rest); i += 2 {
		first = append(first, Match{ID: matchID(1, len(first)+1), P1: rest[i], P2: rest[i+1]})
	}

	b := Bracket{Rounds: [][]Match{first}}
	for prev := first; len(prev) > 1; {
		round := len(b.Rounds) + 1
		next := make([]Match, 0, len(prev)/2)
		for i := 0; i+1 < len(prev); i += 2 {
			next = append(next, Match{
				ID: matchID(round, len(next)+1),
				P1: Placeholder(prev[i].ID),
				P2: Placeholder(prev[i+1].ID),
			})
		}
		b.Rounds = append(b.Rounds, next)
		prev = next
	}
	return b, nil
}

func (b *Bracket) find(id string) (*Match, bool) {
	for r := range b.Rounds {
		for m := range b.Rounds[r] {
			if b.Rounds[r][m].ID == id {
				return &b.Rounds[r][m], true
			}
		}
	}
	return nil, false
}

// Outcome is a recorded bracket result.
type Outcome struct {
	MatchID string
	Winner  string
	Loser   string
}

// Record stores winner for an undecided match whose slots are both known.
func (b *Bracket) Record(id, winner string) (Outcome, error) {
	m, ok := b.find(id)
	if !ok {
		return Outcome{}, errors.Wrapf(ErrUnknownMatch, "%q", id)
	}
	if m.Winner != "" {
		return Outcome{}, errors.Wrapf(ErrMatchDecided, "%s", id)
	}
	if !resolved(m.P1) || !resolved(m.P2) {
		return Outcome{}, errors.Wrapf(ErrMatchNotReady, "%s", id)
	}
	winner = strings.TrimSpace(winner)
	var loser string
	switch winner {
	case m.P1:
		loser = m.P2
	case m.P2:
		loser = m.P1
	default:
		return Outcome{}, errors.Wrapf(ErrWinnerNotInSlot, "%q in %s", winner, id)
	}
	m.Winner = winner
	return Outcome{MatchID: id, Winner: winner, Loser: loser}, nil
}

// Advance makes one pass replacing placeholders with winners of the
// immediately preceding round. It returns the number of slots filled.
func (b *Bracket) Advance() int {
	filled := 0
	for r := 0; r+1 < len(b.Rounds); r++ {
		winners := make(map[string]string, len(b.Rounds[r]))
		for _, m := range b.Rounds[r] {
			if m.Winner != "" {
				winners[m.ID] = m.Winner
			}
		}
		next := b.Rounds[r+1]
		for i := range next {
			for _, slot := range []*string{&next[i].P1, &next[i].P2} {
				src, ok := SourceOf(*slot)
				if !ok {
					continue
				}
				if w, done := winners[src]; done {
					*slot = w
					filled++
				}
			}
		}
	}
	return filled
}

// Complete reports whether the final has a winner.
func (b Bracket) Complete() bool {
	if len(b.Rounds) == 0 {
		return false
	}
	final := b.Rounds[len(b.Rounds)-1]
	return len(final) == 1 && final[0].Winner != ""
}

// Champion is the final's winner, if any.
func (b Bracket) Champion() string {
	if !b.Complete() {
		return ""
	}
	return b.Rounds[len(b.Rounds)-1][0].Winner
}
