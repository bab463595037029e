package services

import (
	"context"
	"testing"

	"insan-mission-system/models"
)

func TestMemoryLedgerRecent(t *testing.T) {
	l := NewMemoryLedger(3)
	ctx := context.Background()
	for i, user := range []string{"a", "b", "a", "a", "a"} {
		if err := l.Record(ctx, models.XPEvent{UserID: user, Delta: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := l.Recent(ctx, "a", 10)
	if err != nil {
		t.Fatal(err)
	}
	// capacity 3 keeps the last three events, all for "a"
	if len(got) != 3 || got[0].Delta != 4 || got[2].Delta != 2 {
		t.Fatalf("unexpected events %+v", got)
	}
	if got[0].ID == "" {
		t.Fatalf("Record should assign an id")
	}
	if b, _ := l.Recent(ctx, "b", 10); len(b) != 0 {
		t.Fatalf("b's event should have been evicted")
	}
}

func TestClampLimit(t *testing.T) {
	for in, want := range map[int]int{0: 20, -1: 20, 5: 5, 100: 100, 101: 20} {
		if got := clampLimit(in); got != want {
			t.Fatalf("clampLimit(%d): want %d, got %d", in, want, got)
		}
	}
}
