package tournament

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ByesAndPlaceholders(t *testing.T) {
	t.Parallel()

	b, err := Generate([]string{"a", "b", "c", "d", "e"}, nil)
	require.NoError(t, err)
	require.Len(t, b.Rounds, 3)

	first := b.Rounds[0]
	require.Len(t, first, 4)
	// 8 - 5 = 3 byes for the first three seeds.
	for i, name := range []string{"a", "b", "c"} {
		require.Equal(t, name, first[i].P1)
		require.Equal(t, Bye, first[i].P2)
		require.Equal(t, name, first[i].Winner)
	}
	require.Equal(t, Match{ID: "R1M4", P1: "d", P2: "e"}, first[3])

	require.Equal(t, Match{ID: "R2M1", P1: "Winner of R1M1", P2: "Winner of R1M2"}, b.Rounds[1][0])
	require.Equal(t, "R3M1", b.Rounds[2][0].ID)
}

func TestGenerate_Validation(t *testing.T) {
	t.Parallel()

	_, err := Generate([]string{"solo"}, nil)
	require.True(t, errors.Is(err, ErrTooFewPlayers))

	_, err = Generate([]string{"a", "a"}, nil)
	require.True(t, errors.Is(err, ErrDuplicatePlayer))
}

func TestGenerate_UsesShuffle(t *testing.T) {
	t.Parallel()

	reverse := func(s []string) {
		for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
			s[i], s[j] = s[j], s[i]
		}
	}
	b, err := Generate([]string{"a", "b", "c", "d"}, reverse)
	require.NoError(t, err)
	require.Equal(t, "d", b.Rounds[0][0].P1)
	require.Equal(t, "c", b.Rounds[0][0].P2)
}

func TestBracket_RecordAdvanceComplete(t *testing.T) {
	t.Parallel()

	b, err := Generate([]string{"a", "b", "c"}, nil)
	require.NoError(t, err)
	// a gets the bye, b plays c.
	require.Equal(t, 1, b.Advance())
	require.Equal(t, "a", b.Rounds[1][0].P1)

	_, err = b.Record("R2M1", "a")
	require.True(t, errors.Is(err, ErrMatchNotReady))

	out, err := b.Record("R1M2", "c")
	require.NoError(t, err)
	require.Equal(t, Outcome{MatchID: "R1M2", Winner: "c", Loser: "b"}, out)

	_, err = b.Record("R1M2", "b")
	require.True(t, errors.Is(err, ErrMatchDecided))

	require.Equal(t, 1, b.Advance())
	require.False(t, b.Complete())

	_, err = b.Record("R2M1", "zed")
	require.True(t, errors.Is(err, ErrWinnerNotInSlot))
	_, err = b.Record("R9M9", "a")
	require.True(t, errors.Is(err, ErrUnknownMatch))

	_, err = b.Record("R2M1", "a")
	require.NoError(t, err)
	require.True(t, b.Complete())
	require.Equal(t, "a", b.Champion())
}

func TestBracket_AdvanceIsOneRoundDeep(t *testing.T) {
	t.Parallel()

	b, err := Generate([]string{"a", "b", "c", "d", "e", "f", "g", "h"}, nil)
	require.NoError(t, err)
	for _, id := range []string{"R1M1", "R1M2"} {
		m, _ := b.find(id)
		_, err := b.Record(id, m.P1)
		require.NoError(t, err)
	}
	require.Equal(t, 2, b.Advance())
	_, err = b.Record("R2M1", "a")
	require.NoError(t, err)

	// R3M1 still waits on R2M1 until the next pass.
	_, pending := SourceOf(b.Rounds[2][0].P1)
	require.True(t, pending)
	require.Equal(t, 1, b.Advance())
	require.Equal(t, "a", b.Rounds[2][0].P1)
}
