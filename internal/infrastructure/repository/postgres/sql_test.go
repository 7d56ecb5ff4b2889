package postgres

import (
	"database/sql"
	"fmt"
	"testing"
)

func TestNullInt64RoundTrip(t *testing.T) {
	t.Run("nil pointer becomes invalid null", func(t *testing.T) {
		if got := ptrToNullInt64(nil); got.Valid {
			t.Fatalf("expected invalid null, got %+v", got)
		}
		if got := nullInt64ToPtr(sql.NullInt64{}); got != nil {
			t.Fatalf("expected nil pointer, got %v", *got)
		}
	})

	t.Run("value survives the round trip", func(t *testing.T) {
		value := int64(42)
		null := ptrToNullInt64(&value)
		if !null.Valid || null.Int64 != 42 {
			t.Fatalf("unexpected null wrapper: %+v", null)
		}
		back := nullInt64ToPtr(null)
		if back == nil || *back != 42 {
			t.Fatalf("unexpected pointer: %v", back)
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("bare sentinel must match")
	}
	if !isNotFound(fmt.Errorf("scan match row: %w", sql.ErrNoRows)) {
		t.Fatalf("wrapped sentinel must match")
	}
	if isNotFound(fmt.Errorf("connection reset")) {
		t.Fatalf("unrelated error must not match")
	}
	if isNotFound(nil) {
		t.Fatalf("nil must not match")
	}
}

func TestInt64sToAny(t *testing.T) {
	got := int64sToAny([]int64{3, 1})
	if len(got) != 2 || got[0] != int64(3) || got[1] != int64(1) {
		t.Fatalf("unexpected conversion: %v", got)
	}
	if got := int64sToAny(nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}
