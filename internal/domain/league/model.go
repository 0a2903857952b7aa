package league

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Size is the number of players in a round-robin league.
const Size = 5

var (
	ErrUnknownSlot   = errors.New("player is not in this league")
	ErrCellDecided   = errors.New("league match already recorded")
	ErrSameSlot      = errors.New("a player cannot play themselves")
	ErrInvalidRoster = errors.New("invalid league roster")
)

// Cell marks "Players[Winner] beat Players[Loser]". Slots are 0-based.
type Cell struct {
	Winner int
	Loser  int
}

func (c Cell) valid() bool {
	return c.Winner >= 0 && c.Winner < Size && c.Loser >= 0 && c.Loser < Size && c.Winner != c.Loser
}

// Results is the decided matrix; only presence matters, not a score.
type Results [Size][Size]bool

func (r Results) Decided(c Cell) bool {
	return c.valid() && r[c.Winner][c.Loser]
}

// PairDecided reports whether either direction between i and j is recorded.
func (r Results) PairDecided(i, j int) bool {
	return r.Decided(Cell{i, j}) || r.Decided(Cell{j, i})
}

func (r Results) Cells() []Cell {
	var out []Cell
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if i != j && r[i][j] {
				out = append(out, Cell{Winner: i, Loser: j})
			}
		}
	}
	return out
}

// League is a five-player round robin.
type League struct {
	ID        int64
	Name      string
	Players   [Size]string
	Results   Results
	CreatedAt time.Time
}

// NewRoster validates five distinct non-empty names.
func NewRoster(names []string) ([Size]string, error) {
	var out [Size]string
	if len(names) != Size {
		return out, errors.Wrapf(ErrInvalidRoster, "expected %d players, got %d", Size, len(names))
	}
	seen := make(map[string]struct{}, Size)
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return out, errors.Wrapf(ErrInvalidRoster, "player %d has no name", i+1)
		}
		if _, dup := seen[name]; dup {
			return out, errors.Wrapf(ErrInvalidRoster, "duplicate player %q", name)
		}
		seen[name] = struct{}{}
		out[i] = name
	}
	return out, nil
}

// NameFor names the count-th league: "League A", "League B", ...
func NameFor(count int) string {
	if count >= 0 && count < 26 {
		return "League " + string(rune('A'+count))
	}
	return fmt.Sprintf("League %d", count+1)
}

func (l League) SlotOf(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, p := range l.Players {
		if p == name {
			return i, true
		}
	}
	return -1, false
}

// CellFor resolves winner and loser names into a cell.
func (l League) CellFor(winner, loser string) (Cell, error) {
	w, ok := l.SlotOf(winner)
	if !ok {
		return Cell{}, errors.Wrapf(ErrUnknownSlot, "%q", winner)
	}
	lo, ok := l.SlotOf(loser)
	if !ok {
		return Cell{}, errors.Wrapf(ErrUnknownSlot, "%q", loser)
	}
	if w == lo {
		return Cell{}, ErrSameSlot
	}
	return Cell{Winner: w, Loser: lo}, nil
}

// Record marks c as decided without ever overwriting either direction.
func (l *League) Record(c Cell) error {
	if !c.valid() {
		return ErrSameSlot
	}
	if l.Results.PairDecided(c.Winner, c.Loser) {
		return errors.Wrapf(ErrCellDecided, "%s vs %s", l.Players[c.Winner], l.Players[c.Loser])
	}
	l.Results[c.Winner][c.Loser] = true
	return nil
}

// Standing is one derived row of the league table.
type Standing struct {
	Name    string  `json:"name"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
	Rank    int     `json:"rank"`
}

// Standings sorts by wins desc, win rate desc, losses asc. Rows with the
// same triple share a rank; a new triple takes its 1-based position.
func (l League) Standings() []Standing {
	rows := make([]Standing, 0, Size)
	for i, name := range l.Players {
		row := Standing{Name: name}
		for j := 0; j < Size; j++ {
			if i == j {
				continue
			}
			if l.Results[i][j] {
				row.Wins++
			}
			if l.Results[j][i] {
				row.Losses++
			}
		}
		if total := row.Wins + row.Losses; total > 0 {
			row.WinRate = float64(row.Wins) / float64(total) * 100
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		return a.Losses < b.Losses
	})

	for i := range rows {
		if i > 0 && sameStanding(rows[i], rows[i-1]) {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}
	return rows
}

func sameStanding(a, b Standing) bool {
	return a.Wins == b.Wins && a.WinRate == b.WinRate && a.Losses == b.Losses
}

// Fixture is one of a player's four league pairings.
type Fixture struct {
	OpponentName string `json:"opponent_name"`
	Submitted    bool   `json:"submitted"`
}

// FixturesFor lists name's opponents; a pair counts as submitted once either
// direction is recorded.
func (l League) FixturesFor(name string) ([]Fixture, bool) {
	me, ok := l.SlotOf(name)
	if !ok {
		return nil, false
	}
	out := make([]Fixture, 0, Size-1)
	for j, opponent := range l.Players {
		if j == me {
			continue
		}
		out = append(out, Fixture{OpponentName: opponent, Submitted: l.Results.PairDecided(me, j)})
	}
	return out, true
}

// Result is a decided cell by name.
type Result struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
}

func (l League) History() []Result {
	cells := l.Results.Cells()
	out := make([]Result, 0, len(cells))
	for _, c := range cells {
		out = append(out, Result{Winner: l.Players[c.Winner], Loser: l.Players[c.Loser]})
	}
	return out
}

// Repository describes league persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, id int64) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, l *League) error
	// InsertResult records c and returns false when the pair already has a
	// result in either direction.
	InsertResult(ctx context.Context, leagueID int64, c Cell) (bool, error)
	DeleteResult(ctx context.Context, leagueID int64, c Cell) (bool, error)
	ReplaceResults(ctx context.Context, leagueID int64, results Results) error
	Delete(ctx context.Context, id int64) (bool, error)
}
