package match

import (
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
)

// Side is the role a player had in a match.
type Side int

const (
	SideWinner Side = iota + 1
	SideLoser
)

// Graduation moves a freshman into a regular division after a fixed number
// of approved matches.
type Graduation struct {
	Matches      int
	MaleRank     int
	FemaleRank   int
	FreshmanRank int
}

func (g Graduation) rankFor(gender player.Gender) int {
	if gender == player.GenderFemale {
		return g.FemaleRank
	}
	return g.MaleRank
}

// Rules holds every amount and date rule applied on approval.
type Rules struct {
	Milestones    []Milestone
	Participation Award
	PartnerBonus  Award
	WeekdayBonus  Award
	BonusWeekday  time.Weekday
	Location      *time.Location
	Graduation    Graduation
}

func DefaultRules() Rules {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return Rules{
		Milestones:    DefaultMilestones(),
		Participation: Award{Betting: 1},
		PartnerBonus:  Award{Betting: 5, Achieve: 1},
		WeekdayBonus:  Award{Betting: 3, Achieve: 1},
		BonusWeekday:  time.Sunday,
		Location:      loc,
		Graduation:    Graduation{Matches: 16, MaleRank: 5, FemaleRank: 7, FreshmanRank: 8},
	}
}

// IsBonusDay reports whether t falls on the bonus weekday in the club zone.
func (r Rules) IsBonusDay(t time.Time) bool {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Weekday() == r.BonusWeekday
}

// Credit is one ledger line produced by a rule.
type Credit struct {
	Award
	Reason string
}

// Effect is a player after a rule pass plus the ledger lines that explain
// the change of its point balances.
type Effect struct {
	Player     player.Player
	Credits    []Credit
	Graduated  bool
	Ungraduate bool
}

func (e *Effect) credit(a Award, reason string) {
	if a.IsZero() {
		return
	}
	e.Player.BettingPoints += a.Betting
	e.Player.AchievePoints += a.Achieve
	e.Credits = append(e.Credits, Credit{Award: a, Reason: reason})
}

// Apply returns p after one approved match on side. opponentsAfter is the
// distinct opponent count including this match.
func (r Rules) Apply(p player.Player, side Side, opponentsAfter int, bonus AppliedBonus) Effect {
	before := SnapshotOf(p)
	p.MatchCount++
	if side == SideWinner {
		p.WinCount++
	} else {
		p.LossCount++
	}
	p.RecomputeRate()
	p.OpponentCount = opponentsAfter
	after := SnapshotOf(p)

	e := Effect{Player: p}
	e.credit(r.Participation, "match participation")
	for _, m := range Crossed(r.Milestones, before, after) {
		e.credit(m.Award, m.Reason())
	}
	if bonus.Partner {
		e.credit(r.PartnerBonus, "today's partner match")
	}
	if bonus.Weekday {
		e.credit(r.WeekdayBonus, r.BonusWeekday.String()+" match")
	}

	g := r.Graduation
	if p.IsFreshman() && g.Matches > 0 && before.Matches < g.Matches && g.Matches <= after.Matches {
		e.Player.Rank = player.IntPtr(g.rankFor(p.Gender))
		e.Graduated = true
	}
	return e
}

// Revert undoes Apply for a removed match. opponentsAfter is the distinct
// opponent count once the match is gone.
func (r Rules) Revert(p player.Player, side Side, opponentsAfter int, bonus AppliedBonus) Effect {
	before := SnapshotOf(p)
	p.MatchCount = max(p.MatchCount-1, 0)
	if side == SideWinner {
		p.WinCount = max(p.WinCount-1, 0)
	} else {
		p.LossCount = max(p.LossCount-1, 0)
	}
	p.RecomputeRate()
	p.OpponentCount = opponentsAfter
	after := SnapshotOf(p)

	e := Effect{Player: p}
	e.credit(r.Participation.Neg(), "match participation revoked")
	for _, m := range Uncrossed(r.Milestones, before, after) {
		e.credit(m.Award.Neg(), m.RevokeReason())
	}
	if bonus.Partner {
		e.credit(r.PartnerBonus.Neg(), "today's partner match revoked")
	}
	if bonus.Weekday {
		e.credit(r.WeekdayBonus.Neg(), r.BonusWeekday.String()+" match revoked")
	}

	g := r.Graduation
	if p.IsFreshman() && g.Matches > 0 && after.Matches < g.Matches && g.Matches <= before.Matches {
		e.Player.Rank = player.IntPtr(g.FreshmanRank)
		e.Ungraduate = true
	}
	return e
}
