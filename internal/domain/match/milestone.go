package match

import (
	"fmt"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
)

// Award is a pair of point amounts granted together.
type Award struct {
	Betting int
	Achieve int
}

func (a Award) Neg() Award {
	return Award{Betting: -a.Betting, Achieve: -a.Achieve}
}

func (a Award) IsZero() bool {
	return a.Betting == 0 && a.Achieve == 0
}

// Counter is a cumulative statistic that can trigger milestones.
type Counter int

const (
	CounterMatches Counter = iota + 1
	CounterWins
	CounterLosses
	CounterOpponents
)

func (c Counter) label() string {
	switch c {
	case CounterMatches:
		return "matches"
	case CounterWins:
		return "wins"
	case CounterLosses:
		return "losses"
	case CounterOpponents:
		return "opponents"
	default:
		return fmt.Sprintf("counter(%d)", int(c))
	}
}

// Snapshot is the counter state a milestone check compares.
type Snapshot struct {
	Matches   int
	Wins      int
	Losses    int
	Opponents int
}

func SnapshotOf(p player.Player) Snapshot {
	return Snapshot{
		Matches:   p.MatchCount,
		Wins:      p.WinCount,
		Losses:    p.LossCount,
		Opponents: p.OpponentCount,
	}
}

func (s Snapshot) value(c Counter) int {
	switch c {
	case CounterMatches:
		return s.Matches
	case CounterWins:
		return s.Wins
	case CounterLosses:
		return s.Losses
	case CounterOpponents:
		return s.Opponents
	default:
		return 0
	}
}

// Milestone grants Award once Counter reaches Threshold. A player holds the
// award exactly while the counter is at or above the threshold.
type Milestone struct {
	Counter   Counter
	Threshold int
	Award     Award
}

func (m Milestone) Reason() string {
	return fmt.Sprintf("%d %s reached", m.Threshold, m.Counter.label())
}

func (m Milestone) RevokeReason() string {
	return m.Reason() + " revoked"
}

// DefaultMilestones is the club's bonus table.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{CounterMatches, 30, Award{Betting: 10, Achieve: 5}},
		{CounterMatches, 50, Award{Betting: 20, Achieve: 10}},
		{CounterMatches, 70, Award{Betting: 40, Achieve: 20}},
		{CounterMatches, 100, Award{Betting: 60, Achieve: 30}},
		{CounterWins, 20, Award{Betting: 20, Achieve: 10}},
		{CounterWins, 35, Award{Betting: 40, Achieve: 20}},
		{CounterWins, 50, Award{Betting: 60, Achieve: 30}},
		{CounterLosses, 20, Award{Betting: 10, Achieve: 10}},
		{CounterLosses, 35, Award{Betting: 20, Achieve: 20}},
		{CounterLosses, 50, Award{Betting: 30, Achieve: 30}},
		{CounterOpponents, 10, Award{Betting: 10, Achieve: 5}},
		{CounterOpponents, 25, Award{Betting: 40, Achieve: 20}},
		{CounterOpponents, 40, Award{Betting: 60, Achieve: 30}},
	}
}

// Crossed returns milestones whose threshold lies in (before, after].
func Crossed(milestones []Milestone, before, after Snapshot) []Milestone {
	var out []Milestone
	for _, m := range milestones {
		b, a := before.value(m.Counter), after.value(m.Counter)
		if b < m.Threshold && m.Threshold <= a {
			out = append(out, m)
		}
	}
	return out
}

// Uncrossed returns milestones whose threshold lies in (after, before].
func Uncrossed(milestones []Milestone, before, after Snapshot) []Milestone {
	var out []Milestone
	for _, m := range milestones {
		b, a := before.value(m.Counter), after.value(m.Counter)
		if a < m.Threshold && m.Threshold <= b {
			out = append(out, m)
		}
	}
	return out
}
