package httpapi

import (
	"time"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	"github.com/riskibarqy/pingpong-club/internal/domain/betting"
	"github.com/riskibarqy/pingpong-club/internal/domain/division"
	"github.com/riskibarqy/pingpong-club/internal/domain/league"
	"github.com/riskibarqy/pingpong-club/internal/domain/match"
	"github.com/riskibarqy/pingpong-club/internal/domain/partner"
	"github.com/riskibarqy/pingpong-club/internal/domain/player"
	"github.com/riskibarqy/pingpong-club/internal/domain/pointlog"
	"github.com/riskibarqy/pingpong-club/internal/domain/tournament"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type principalDTO struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	PlayerID *int64 `json:"player_id,omitempty"`
}

func principalToDTO(p account.Principal) principalDTO {
	return principalDTO{UserID: p.UserID, Username: p.Username, IsAdmin: p.IsAdmin, PlayerID: p.PlayerID}
}

type loginDTO struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Principal principalDTO `json:"principal"`
}

type userDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	PlayerID *int64 `json:"player_id,omitempty"`
}

func userToDTO(u account.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin, PlayerID: u.PlayerID}
}

type ordersDTO struct {
	Win      *int `json:"win"`
	Loss     *int `json:"loss"`
	Match    *int `json:"match"`
	Rate     *int `json:"rate"`
	Opponent *int `json:"opponent"`
	Achieve  *int `json:"achieve"`
	Betting  *int `json:"betting"`
}

type playerDTO struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	IsValid       bool      `json:"is_valid"`
	Gender        string    `json:"gender"`
	Freshman      bool      `json:"freshman"`
	Rank          *int      `json:"rank"`
	MatchCount    int       `json:"match_count"`
	WinCount      int       `json:"win_count"`
	LossCount     int       `json:"loss_count"`
	RateCount     float64   `json:"rate_count"`
	OpponentCount int       `json:"opponent_count"`
	AchievePoints int       `json:"achieve_points"`
	BettingPoints int       `json:"betting_points"`
	Orders        ordersDTO `json:"orders"`
	CreatedAt     time.Time `json:"created_at"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:            p.ID,
		Name:          p.Name,
		IsValid:       p.IsValid,
		Gender:        string(p.Gender),
		Freshman:      p.IsFreshman(),
		Rank:          p.Rank,
		MatchCount:    p.MatchCount,
		WinCount:      p.WinCount,
		LossCount:     p.LossCount,
		RateCount:     p.RateCount,
		OpponentCount: p.OpponentCount,
		AchievePoints: p.AchievePoints,
		BettingPoints: p.BettingPoints,
		Orders: ordersDTO{
			Win:      p.Orders.Win,
			Loss:     p.Orders.Loss,
			Match:    p.Orders.Match,
			Rate:     p.Orders.Rate,
			Opponent: p.Orders.Opponent,
			Achieve:  p.Orders.Achieve,
			Betting:  p.Orders.Betting,
		},
		CreatedAt: p.CreatedAt,
	}
}

type pointLogDTO struct {
	ID           int64     `json:"id"`
	AchieveDelta int       `json:"achieve_delta"`
	BettingDelta int       `json:"betting_delta"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

type playerDetailDTO struct {
	Player playerDTO     `json:"player"`
	Logs   []pointLogDTO `json:"logs"`
}

func playerDetailToDTO(d usecase.PlayerDetail) playerDetailDTO {
	logs := make([]pointLogDTO, 0, len(d.Logs))
	for _, e := range d.Logs {
		logs = append(logs, pointLogToDTO(e))
	}
	return playerDetailDTO{Player: playerToDTO(d.Player), Logs: logs}
}

func pointLogToDTO(e pointlog.Entry) pointLogDTO {
	return pointLogDTO{ID: e.ID, AchieveDelta: e.AchieveDelta, BettingDelta: e.BettingDelta, Reason: e.Reason, CreatedAt: e.CreatedAt}
}

type leaderboardDTO struct {
	Category string                     `json:"category"`
	Entries  []usecase.LeaderboardEntry `json:"entries"`
	Viewer   *usecase.LeaderboardEntry  `json:"viewer,omitempty"`
}

func leaderboardToDTO(b usecase.Leaderboard) leaderboardDTO {
	entries := b.Entries
	if entries == nil {
		entries = []usecase.LeaderboardEntry{}
	}
	return leaderboardDTO{Category: b.Category.String(), Entries: entries, Viewer: b.Viewer}
}

type matchDTO struct {
	ID           int64     `json:"id"`
	WinnerID     int64     `json:"winner_id"`
	WinnerName   string    `json:"winner_name"`
	LoserID      int64     `json:"loser_id"`
	LoserName    string    `json:"loser_name"`
	Score        string    `json:"score"`
	PlayedAt     time.Time `json:"played_at"`
	Approved     bool      `json:"approved"`
	PartnerBonus bool      `json:"partner_bonus"`
	WeekdayBonus bool      `json:"weekday_bonus"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:           m.ID,
		WinnerID:     m.WinnerID,
		WinnerName:   m.WinnerName,
		LoserID:      m.LoserID,
		LoserName:    m.LoserName,
		Score:        m.Score,
		PlayedAt:     m.PlayedAt,
		Approved:     m.Approved,
		PartnerBonus: m.Bonus.Partner,
		WeekdayBonus: m.Bonus.Weekday,
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(m))
	}
	return out
}

type bettingDTO struct {
	ID                int64     `json:"id"`
	Status            string    `json:"status"`
	P1ID              int64     `json:"p1_id"`
	P1Name            string    `json:"p1_name"`
	P2ID              int64     `json:"p2_id"`
	P2Name            string    `json:"p2_name"`
	Point             int       `json:"point"`
	Closed            bool      `json:"closed"`
	Submitted         bool      `json:"submitted"`
	Approved          bool      `json:"approved"`
	ResultMatchID     *int64    `json:"result_match_id,omitempty"`
	BettingDayPlayers []int64   `json:"betting_day_players"`
	CreatedAt         time.Time `json:"created_at"`
}

func bettingToDTO(b betting.Betting) bettingDTO {
	awarded := b.BettingDayPlayers
	if awarded == nil {
		awarded = []int64{}
	}
	return bettingDTO{
		ID:                b.ID,
		Status:            string(b.Status()),
		P1ID:              b.P1ID,
		P1Name:            b.P1Name,
		P2ID:              b.P2ID,
		P2Name:            b.P2Name,
		Point:             b.Point,
		Closed:            b.Closed,
		Submitted:         b.Submitted,
		Approved:          b.Approved,
		ResultMatchID:     b.ResultMatchID,
		BettingDayPlayers: awarded,
		CreatedAt:         b.CreatedAt,
	}
}

type participantDTO struct {
	PlayerID   int64  `json:"player_id"`
	PlayerName string `json:"player_name"`
	WinnerID   *int64 `json:"winner_id"`
}

func participantToDTO(p betting.Participant) participantDTO {
	return participantDTO{PlayerID: p.PlayerID, PlayerName: p.PlayerName, WinnerID: p.WinnerID}
}

type bettingViewDTO struct {
	Betting      bettingDTO       `json:"betting"`
	Participants []participantDTO `json:"participants"`
	Match        *matchDTO        `json:"match,omitempty"`
}

func bettingViewToDTO(v usecase.BettingView) bettingViewDTO {
	out := bettingViewDTO{Betting: bettingToDTO(v.Betting), Participants: make([]participantDTO, 0, len(v.Participants))}
	for _, p := range v.Participants {
		out.Participants = append(out.Participants, participantToDTO(p))
	}
	if v.Match != nil {
		m := matchToDTO(*v.Match)
		out.Match = &m
	}
	return out
}

type leagueDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Players   []string  `json:"players"`
	Results   [][]bool  `json:"results"`
	CreatedAt time.Time `json:"created_at"`
}

func leagueToDTO(l league.League) leagueDTO {
	results := make([][]bool, league.Size)
	for i := range results {
		results[i] = l.Results[i][:]
	}
	return leagueDTO{ID: l.ID, Name: l.Name, Players: l.Players[:], Results: results, CreatedAt: l.CreatedAt}
}

type leagueDetailDTO struct {
	League    leagueDTO         `json:"league"`
	Standings []league.Standing `json:"standings"`
	Fixtures  []league.Fixture  `json:"fixtures,omitempty"`
	History   []league.Result   `json:"history,omitempty"`
}

type tournamentDTO struct {
	ID        int64                `json:"id"`
	Title     string               `json:"title"`
	Status    string               `json:"status"`
	Rounds    [][]tournament.Match `json:"rounds"`
	Champion  string               `json:"champion,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

func tournamentToDTO(t tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:        t.ID,
		Title:     t.Title,
		Status:    string(t.Status),
		Rounds:    t.Bracket.Rounds,
		Champion:  t.Bracket.Champion(),
		CreatedAt: t.CreatedAt,
	}
}

type pairingDTO struct {
	ID        int64     `json:"id"`
	P1Name    string    `json:"p1_name"`
	P2Name    string    `json:"p2_name"`
	Submitted bool      `json:"submitted"`
	CreatedAt time.Time `json:"created_at"`
}

func pairingToDTO(p partner.Pairing) pairingDTO {
	return pairingDTO{ID: p.ID, P1Name: p.P1Name, P2Name: p.P2Name, Submitted: p.Submitted, CreatedAt: p.CreatedAt}
}

type updateLogDTO struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Kind      string         `json:"kind"`
	Rows      []division.Row `json:"rows"`
	HTML      string         `json:"html"`
	CreatedAt time.Time      `json:"created_at"`
}

func updateLogToDTO(l division.UpdateLog) updateLogDTO {
	rows := l.Rows
	if rows == nil {
		rows = []division.Row{}
	}
	return updateLogDTO{ID: l.ID, Title: l.Title, Kind: string(l.Kind), Rows: rows, HTML: l.HTML, CreatedAt: l.CreatedAt}
}
