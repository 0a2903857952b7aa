package ranking

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
)

// Category is a statistic that players are ranked by.
type Category int

const (
	CategoryWins Category = iota + 1
	CategoryLosses
	CategoryMatches
	CategoryWinRate
	CategoryOpponents
	CategoryAchievement
	CategoryBetting
)

var AllCategories = []Category{
	CategoryWins,
	CategoryLosses,
	CategoryMatches,
	CategoryWinRate,
	CategoryOpponents,
	CategoryAchievement,
	CategoryBetting,
}

func (c Category) String() string {
	switch c {
	case CategoryWins:
		return "wins"
	case CategoryLosses:
		return "losses"
	case CategoryMatches:
		return "matches"
	case CategoryWinRate:
		return "win_rate"
	case CategoryOpponents:
		return "opponents"
	case CategoryAchievement:
		return "achievement"
	case CategoryBetting:
		return "betting"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

func ParseCategory(v string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(v))
	for _, c := range AllCategories {
		if c.String() == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown ranking category %q", v)
}

// Value is the sort key of p in this category.
func (c Category) Value(p player.Player) float64 {
	switch c {
	case CategoryWins:
		return float64(p.WinCount)
	case CategoryLosses:
		return float64(p.LossCount)
	case CategoryMatches:
		return float64(p.MatchCount)
	case CategoryWinRate:
		return p.RateCount
	case CategoryOpponents:
		return float64(p.OpponentCount)
	case CategoryAchievement:
		return float64(p.AchievePoints)
	case CategoryBetting:
		return float64(p.BettingPoints)
	default:
		panic(fmt.Sprintf("ranking: unhandled category %d", int(c)))
	}
}

// Order returns the stored dense rank of this category.
func (c Category) Order(o player.Orders) *int {
	switch c {
	case CategoryWins:
		return o.Win
	case CategoryLosses:
		return o.Loss
	case CategoryMatches:
		return o.Match
	case CategoryWinRate:
		return o.Rate
	case CategoryOpponents:
		return o.Opponent
	case CategoryAchievement:
		return o.Achieve
	case CategoryBetting:
		return o.Betting
	default:
		panic(fmt.Sprintf("ranking: unhandled category %d", int(c)))
	}
}

func (c Category) SetOrder(o *player.Orders, rank int) {
	r := rank
	switch c {
	case CategoryWins:
		o.Win = &r
	case CategoryLosses:
		o.Loss = &r
	case CategoryMatches:
		o.Match = &r
	case CategoryWinRate:
		o.Rate = &r
	case CategoryOpponents:
		o.Opponent = &r
	case CategoryAchievement:
		o.Achieve = &r
	case CategoryBetting:
		o.Betting = &r
	default:
		panic(fmt.Sprintf("ranking: unhandled category %d", int(c)))
	}
}

// Group is a set of categories recomputed together.
type Group int

const (
	GroupMatch Group = iota + 1
	GroupPoint
)

func (g Group) Categories() []Category {
	switch g {
	case GroupMatch:
		return []Category{CategoryWins, CategoryLosses, CategoryMatches, CategoryWinRate, CategoryOpponents}
	case GroupPoint:
		return []Category{CategoryAchievement, CategoryBetting}
	default:
		return nil
	}
}

func (g Group) String() string {
	switch g {
	case GroupMatch:
		return "match"
	case GroupPoint:
		return "point"
	default:
		return fmt.Sprintf("group(%d)", int(g))
	}
}
