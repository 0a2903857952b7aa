package betting

// Settlement is the point movement of one approved betting. Every payer is
// charged Stake; the match winner and each correct bettor receive Share.
type Settlement struct {
	WinnerID int64
	LoserID  int64
	Stake    int
	Pot      int
	Share    int
	Payers   []int64
	Correct  []int64
	Wrong    []int64
}

// Settle splits point*(2+k) between the match winner and the c correct
// bettors as pot/(1+c). The remainder of the integer division is dropped.
func Settle(b Betting, participants []Participant, winnerID int64) Settlement {
	loserID, _, _ := b.Other(winnerID)
	s := Settlement{
		WinnerID: winnerID,
		LoserID:  loserID,
		Stake:    b.Point,
		Payers:   []int64{b.P1ID, b.P2ID},
	}
	for _, p := range participants {
		s.Payers = append(s.Payers, p.PlayerID)
		if p.WinnerID != nil && *p.WinnerID == winnerID {
			s.Correct = append(s.Correct, p.PlayerID)
			continue
		}
		s.Wrong = append(s.Wrong, p.PlayerID)
	}
	s.Pot = b.Point * (2 + len(participants))
	s.Share = s.Pot / (1 + len(s.Correct))
	return s
}

// Receivers lists who is credited Share.
func (s Settlement) Receivers() []int64 {
	out := make([]int64, 0, 1+len(s.Correct))
	out = append(out, s.WinnerID)
	return append(out, s.Correct...)
}

// Paid is the total credited back, which never exceeds Pot.
func (s Settlement) Paid() int {
	return s.Share * (1 + len(s.Correct))
}

// Net returns the balance change of every involved player.
func (s Settlement) Net() map[int64]int {
	out := make(map[int64]int, len(s.Payers))
	for _, id := range s.Payers {
		out[id] -= s.Stake
	}
	for _, id := range s.Receivers() {
		out[id] += s.Share
	}
	return out
}
