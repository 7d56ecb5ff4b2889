package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectToSQL(t *testing.T) {
	t.Parallel()

	sql, args, err := Select("id", "match_id", "join_code").
		From("games").
		Where(Eq("match_id", int64(9)), IsNull("deleted_at")).
		OrderBy("id ASC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "SELECT id, match_id, join_code FROM games WHERE match_id = $1 AND deleted_at IS NULL ORDER BY id ASC LIMIT 10"
	if sql != want {
		t.Fatalf("sql mismatch:\nwant %s\ngot  %s", want, sql)
	}
	if !reflect.DeepEqual(args, []any{int64(9)}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestSelectInCondition(t *testing.T) {
	t.Parallel()

	sql, args, err := Select("id").
		From("game_results").
		Where(In("game_id", []any{int64(1), int64(2)})).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	if sql != "SELECT id FROM game_results WHERE game_id IN ($1, $2)" {
		t.Fatalf("unexpected sql: %s", sql)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %v", args)
	}

	sql, _, err = Select("id").From("game_results").Where(In("game_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	if sql != "SELECT id FROM game_results WHERE 1=0" {
		t.Fatalf("empty IN must never match, got: %s", sql)
	}
}

func TestInsertSuffixPlaceholderRewrite(t *testing.T) {
	t.Parallel()

	sql, args, err := InsertInto("game_results").
		Columns("external_id", "duration_sec").
		Values(int64(777), 1850).
		Suffix("ON CONFLICT (external_id) DO NOTHING RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "INSERT INTO game_results (external_id, duration_sec) VALUES ($1, $2) ON CONFLICT (external_id) DO NOTHING RETURNING id"
	if sql != want {
		t.Fatalf("sql mismatch:\nwant %s\ngot  %s", want, sql)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestUpdateToSQL(t *testing.T) {
	t.Parallel()

	sql, args, err := Update("matches").
		Set("winner_team_id", int64(4)).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(12)), IsNull("winner_team_id")).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	want := "UPDATE matches SET winner_team_id = $1, updated_at = NOW() WHERE id = $2 AND winner_team_id IS NULL"
	if sql != want {
		t.Fatalf("sql mismatch:\nwant %s\ngot  %s", want, sql)
	}
	if !reflect.DeepEqual(args, []any{int64(4), int64(12)}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		ExternalID int64  `db:"external_id"`
		JoinCode   string `db:"join_code"`
		Ignored    string `db:"-"`
		Untagged   string
	}

	sql, args, err := InsertModel("game_results", row{ExternalID: 5, JoinCode: "abc"}, "")
	if err != nil {
		t.Fatalf("InsertModel: %v", err)
	}
	if sql != "INSERT INTO game_results (external_id, join_code) VALUES ($1, $2)" {
		t.Fatalf("unexpected sql: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{int64(5), "abc"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuilderValidation(t *testing.T) {
	t.Parallel()

	if _, _, err := Select().From("games").ToSQL(); err == nil {
		t.Fatalf("expected error for empty columns")
	}
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatalf("expected error for missing table")
	}
	if _, _, err := InsertInto("games").Columns("a").ToSQL(); err == nil {
		t.Fatalf("expected error for missing values")
	}
	if _, _, err := InsertInto("games").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected error for column/value mismatch")
	}
	if _, _, err := Update("games").ToSQL(); err == nil {
		t.Fatalf("expected error for update without sets")
	}
}
