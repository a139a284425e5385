package usage

import (
	"context"
	"testing"
)

func TestMemoryLedgerAccumulates(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	if err := l.Record(ctx, "key-1", 10, 4); err != nil {
		t.Fatalf("Record failed: %s", err)
	}
	if err := l.Record(ctx, "key-1", 5, 1); err != nil {
		t.Fatalf("Record failed: %s", err)
	}
	if err := l.Record(ctx, "key-2", 7, 0); err != nil {
		t.Fatalf("Record failed: %s", err)
	}

	stats, err := l.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %s", err)
	}
	if len(stats) != 2 {
		t.Fatalf("All returned %d entries", len(stats))
	}
	first := stats[0]
	if first.KeyID != "key-1" || first.Requests != 2 || first.PromptTokens != 15 || first.CompletionTokens != 5 {
		t.Fatalf("key-1 stats = %+v", first)
	}
	if stats[1].KeyID != "key-2" || stats[1].Requests != 1 {
		t.Fatalf("key-2 stats = %+v", stats[1])
	}
}

func TestMemoryLedgerEmpty(t *testing.T) {
	l := NewMemoryLedger()
	stats, err := l.All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %s", err)
	}
	if len(stats) != 0 {
		t.Fatalf("All on empty ledger returned %v", stats)
	}
}

func TestMemoryLedgerCopiesOut(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	_ = l.Record(ctx, "key-1", 1, 1)

	stats, _ := l.All(ctx)
	stats[0].Requests = 99

	again, _ := l.All(ctx)
	if again[0].Requests != 1 {
		t.Fatal("All must return copies, not live entries")
	}
}
