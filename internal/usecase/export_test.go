package usecase

import "time"

func (s *MatchService) SetClock(now func() time.Time)      { s.now = now }
func (s *BettingService) SetClock(now func() time.Time)    { s.now = now }
func (s *LeagueService) SetClock(now func() time.Time)     { s.now = now }
func (s *TournamentService) SetClock(now func() time.Time) { s.now = now }
func (s *DivisionService) SetClock(now func() time.Time)   { s.now = now }
func (s *PartnerService) SetClock(now func() time.Time)    { s.now = now }
func (s *PlayerService) SetClock(now func() time.Time)     { s.now = now }

func (s *TournamentService) SetShuffle(shuffle func([]string)) { s.shuffle = shuffle }

// SetHashCost lowers the bcrypt cost to keep tests fast.
func (s *AccountService) SetHashCost(cost int) { s.cost = cost }

var CreatePendingMatch = createPendingMatch
