package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("players").
		Where(Eq("is_valid", true), IsNull("deleted_at")).
		OrderBy("win_count DESC", "id").
		Limit(10).
		Offset(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM players WHERE is_valid = $1 AND deleted_at IS NULL ORDER BY win_count DESC, id LIMIT 10 OFFSET 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ForUpdateAndOr(t *testing.T) {
	query, args, err := Select("id").
		From("matches").
		Where(
			Eq("approved", true),
			Or(
				And(Eq("winner_id", int64(1)), Eq("loser_id", int64(2))),
				And(Eq("winner_id", int64(2)), Eq("loser_id", int64(1))),
			),
		).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM matches WHERE approved = $1 AND ((winner_id = $2 AND loser_id = $3) OR (winner_id = $4 AND loser_id = $5)) FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 5 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInConditions(t *testing.T) {
	query, args, err := Select("id").From("players").Where(InInt64("id", []int64{3, 4}), Gte("match_count", 5)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM players WHERE id IN ($1, $2) AND match_count >= $3" {
		t.Fatalf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{int64(3), int64(4), 5}) {
		t.Fatalf("unexpected args: %+v", args)
	}

	query, args, err = Select("id").From("players").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM players WHERE 1=0" || len(args) != 0 {
		t.Fatalf("empty IN should match nothing, got %s %+v", query, args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("league_results").
		Columns("league_id", "winner_id", "loser_id").
		Values(int64(1), int64(2), int64(3)).
		Values(int64(1), int64(4), int64(5)).
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO league_results (league_id, winner_id, loser_id) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("players").Columns("id", "name").Values(1).ToSQL()
	if err == nil {
		t.Fatalf("expected row width error")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("players").
		Set("name", "new").
		SetExpr("win_count", "win_count + ?", 1).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(9)), Eq("approved", false)).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE players SET name = $1, win_count = win_count + $2, updated_at = NOW() WHERE id = $3 AND approved = $4"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "new" || args[1] != 1 || args[2] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("betting_participants").
		Where(Eq("betting_id", int64(4)), Any("participant_id", []int64{1, 2})).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM betting_participants WHERE betting_id = $1 AND participant_id = ANY($2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("players").ToSQL(); err == nil {
		t.Fatalf("expected unconditioned delete to be rejected")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID     int64  `db:"id"`
		Name   string `db:"name"`
		Hidden string
		Skip   string `db:"-"`
	}

	query, args, err := InsertModel("players", row{ID: 1, Name: "kim"}, "RETURNING id", "id")
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}
	if query != "INSERT INTO players (name) VALUES ($1) RETURNING id" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != "kim" {
		t.Fatalf("unexpected args: %+v", args)
	}
	if cols := ColumnsOf(row{}); !reflect.DeepEqual(cols, []string{"id", "name"}) {
		t.Fatalf("unexpected columns: %v", cols)
	}
}
