package ranking

import (
	"reflect"
	"testing"

	"github.com/riskibarqy/pingpong-club/internal/domain/player"
)

func TestDense(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []float64
		want []int
	}{
		{name: "empty", in: nil, want: []int{}},
		{name: "ties jump by position", in: []float64{10, 10, 7, 5, 5, 5}, want: []int{1, 1, 3, 4, 4, 4}},
		{name: "all distinct", in: []float64{9, 8, 7}, want: []int{1, 2, 3}},
		{name: "all equal", in: []float64{3, 3, 3}, want: []int{1, 1, 1}},
		{name: "trailing tie", in: []float64{10, 10, 7, 5, 5, 1}, want: []int{1, 1, 3, 4, 4, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dense(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Dense(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAssign_SortsDescending(t *testing.T) {
	t.Parallel()

	players := []player.Player{
		{ID: 1, WinCount: 5},
		{ID: 2, WinCount: 10},
		{ID: 3, WinCount: 7},
		{ID: 4, WinCount: 10},
		{ID: 5, WinCount: 5},
		{ID: 6, WinCount: 5},
	}
	got := Assign(players, CategoryWins)
	want := map[int64]int{2: 1, 4: 1, 3: 3, 1: 4, 5: 4, 6: 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Assign = %v, want %v", got, want)
	}
}

func TestRecompute_OnlyTouchesGroup(t *testing.T) {
	t.Parallel()

	stale := 9
	players := []player.Player{
		{ID: 1, WinCount: 1, MatchCount: 2, LossCount: 1, RateCount: 50, BettingPoints: 110, Orders: player.Orders{Betting: &stale}},
		{ID: 2, WinCount: 2, MatchCount: 2, RateCount: 100, BettingPoints: 90},
	}
	orders := Recompute(players, GroupMatch)

	if *orders[2].Win != 1 || *orders[1].Win != 2 {
		t.Fatalf("unexpected win orders: %v %v", *orders[1].Win, *orders[2].Win)
	}
	if *orders[1].Match != 1 || *orders[2].Match != 1 {
		t.Fatalf("tied matches should share rank 1")
	}
	if *orders[1].Loss != 1 || *orders[2].Loss != 2 {
		t.Fatalf("unexpected loss orders")
	}
	if orders[1].Betting == nil || *orders[1].Betting != 9 {
		t.Fatalf("point group order should be left untouched")
	}
	if orders[2].Betting != nil {
		t.Fatalf("point group order should stay nil")
	}
}

func TestCategory_ParseAndAccessors(t *testing.T) {
	t.Parallel()

	for _, c := range AllCategories {
		parsed, err := ParseCategory(c.String())
		if err != nil || parsed != c {
			t.Fatalf("ParseCategory(%q) = %v, %v", c.String(), parsed, err)
		}
		var orders player.Orders
		c.SetOrder(&orders, 3)
		if got := c.Order(orders); got == nil || *got != 3 {
			t.Fatalf("%s order not stored", c)
		}
	}
	if _, err := ParseCategory("elo"); err == nil {
		t.Fatalf("expected unknown category error")
	}
}
