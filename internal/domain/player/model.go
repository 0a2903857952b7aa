package player

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Gender is the registration gender tag. It only affects division ranks.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func ParseGender(v string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "M", "MALE":
		return GenderMale, nil
	case "F", "FEMALE":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("invalid gender %q", v)
	}
}

// Cohort tells freshmen apart from regular members.
type Cohort string

const (
	CohortFreshman Cohort = "Y"
	CohortRegular  Cohort = "N"
)

func ParseCohort(v string) (Cohort, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "Y", "YES", "FRESHMAN":
		return CohortFreshman, nil
	case "N", "NO", "REGULAR":
		return CohortRegular, nil
	default:
		return "", fmt.Errorf("invalid freshman status %q", v)
	}
}

// DefaultBettingPoints is the betting balance every new player starts with.
const DefaultBettingPoints = 100

// Orders holds the batch-computed dense ranks, one per statistic.
// Nil means the player was never ranked in that category.
type Orders struct {
	Win      *int
	Loss     *int
	Match    *int
	Rate     *int
	Opponent *int
	Achieve  *int
	Betting  *int
}

// Player is a club member with running match and point counters.
type Player struct {
	ID            int64
	Name          string
	IsValid       bool
	Gender        Gender
	Cohort        Cohort
	Rank          *int
	MatchCount    int
	WinCount      int
	LossCount     int
	RateCount     float64
	OpponentCount int
	AchievePoints int
	BettingPoints int
	Orders        Orders
	CreatedAt     time.Time
}

func (p Player) IsFreshman() bool {
	return p.Cohort == CohortFreshman
}

// RecomputeRate refreshes RateCount from the win and match counters.
func (p *Player) RecomputeRate() {
	p.RateCount = WinRate(p.WinCount, p.MatchCount)
}

// WinRate is wins/matches*100 rounded to two decimals, or 0 without matches.
func WinRate(wins, matches int) float64 {
	if matches <= 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(matches)*100*100) / 100
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return fmt.Errorf("invalid player gender: %s", p.Gender)
	}
	if p.Cohort != CohortFreshman && p.Cohort != CohortRegular {
		return fmt.Errorf("invalid player cohort: %s", p.Cohort)
	}
	if p.MatchCount != p.WinCount+p.LossCount {
		return fmt.Errorf("player %s has %d matches but %d wins and %d losses", p.Name, p.MatchCount, p.WinCount, p.LossCount)
	}
	return nil
}

// InitialRanks maps (gender, cohort) to a division rank at registration.
type InitialRanks struct {
	Male     int
	Female   int
	Freshman int
}

func DefaultInitialRanks() InitialRanks {
	return InitialRanks{Male: 4, Female: 6, Freshman: 8}
}

func (r InitialRanks) For(gender Gender, cohort Cohort) int {
	if cohort == CohortFreshman {
		return r.Freshman
	}
	if gender == GenderFemale {
		return r.Female
	}
	return r.Male
}

// New builds a freshly registered player.
func New(name string, gender Gender, cohort Cohort, ranks InitialRanks, now time.Time) Player {
	rank := ranks.For(gender, cohort)
	return Player{
		Name:          strings.TrimSpace(name),
		IsValid:       true,
		Gender:        gender,
		Cohort:        cohort,
		Rank:          &rank,
		BettingPoints: DefaultBettingPoints,
		CreatedAt:     now,
	}
}

// Movement describes how a division rank moved between two updates.
type Movement string

const (
	MovementNone Movement = ""
	MovementNew  Movement = "New"
	MovementUp   Movement = "Up"
	MovementDown Movement = "Down"
)

// MovementOf compares a previous division rank with the current one.
// Lower numbers are better divisions.
func MovementOf(previous, current *int) Movement {
	switch {
	case previous == nil || *previous == 0:
		return MovementNew
	case current == nil:
		return MovementNone
	case *current < *previous:
		return MovementUp
	case *current > *previous:
		return MovementDown
	default:
		return MovementNone
	}
}

// IntPtr returns a pointer to a copy of v.
func IntPtr(v int) *int {
	return &v
}
