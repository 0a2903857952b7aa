package betting

import (
	"testing"
)

func guess(id int64) *int64 { return &id }

func TestSettle_StakeTenTwoParticipants(t *testing.T) {
	t.Parallel()

	b := Betting{ID: 1, P1ID: 1, P1Name: "A", P2ID: 2, P2Name: "B", Point: 10}
	participants := []Participant{
		{PlayerID: 10, PlayerName: "X", WinnerID: guess(1)},
		{PlayerID: 11, PlayerName: "Y", WinnerID: guess(2)},
	}

	s := Settle(b, participants, 1)
	if s.Pot != 40 || s.Share != 20 {
		t.Fatalf("unexpected pot/share: %d/%d", s.Pot, s.Share)
	}
	if s.LoserID != 2 {
		t.Fatalf("unexpected loser: %d", s.LoserID)
	}
	net := s.Net()
	want := map[int64]int{1: 10, 2: -10, 10: 10, 11: -10}
	for id, v := range want {
		if net[id] != v {
			t.Fatalf("net[%d] = %d, want %d (all: %v)", id, net[id], v, net)
		}
	}
}

func TestSettle_Conservation(t *testing.T) {
	t.Parallel()

	for stake := 1; stake <= 25; stake += 4 {
		for k := 0; k <= 6; k++ {
			for c := 0; c <= k; c++ {
				b := Betting{P1ID: 1, P2ID: 2, Point: stake}
				participants := make([]Participant, 0, k)
				for i := 0; i < k; i++ {
					winner := int64(2)
					if i < c {
						winner = 1
					}
					participants = append(participants, Participant{PlayerID: int64(100 + i), WinnerID: guess(winner)})
				}
				s := Settle(b, participants, 1)
				if s.Paid() > s.Pot {
					t.Fatalf("stake=%d k=%d c=%d paid %d > pot %d", stake, k, c, s.Paid(), s.Pot)
				}
				if s.Pot-s.Paid() > c {
					t.Fatalf("remainder %d exceeds divisor", s.Pot-s.Paid())
				}
				total := 0
				for _, v := range s.Net() {
					total += v
				}
				if total != s.Paid()-s.Pot {
					t.Fatalf("net sum %d != paid-pot %d", total, s.Paid()-s.Pot)
				}
			}
		}
	}
}

func TestSettle_UnplacedGuessIsWrong(t *testing.T) {
	t.Parallel()

	b := Betting{P1ID: 1, P2ID: 2, Point: 5}
	s := Settle(b, []Participant{{PlayerID: 3}}, 2)
	if len(s.Correct) != 0 || len(s.Wrong) != 1 {
		t.Fatalf("unexpected split: %+v", s)
	}
	if s.Share != 15 {
		t.Fatalf("winner takes the whole pot, got %d", s.Share)
	}
}

func TestBetting_Status(t *testing.T) {
	t.Parallel()

	b := Betting{}
	if b.Status() != StatusOpen {
		t.Fatalf("expected open")
	}
	b.Closed = true
	if b.Status() != StatusClosed {
		t.Fatalf("expected closed")
	}
	b.Submitted = true
	if b.Status() != StatusSubmitted {
		t.Fatalf("expected submitted")
	}
	b.Approved = true
	if b.Status() != StatusApproved {
		t.Fatalf("expected approved")
	}
}
