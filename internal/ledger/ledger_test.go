package ledger

import (
	"testing"
	"time"

	"github.com/dpaula-bank/bank/internal/money"
)

func TestLedger_AppendAndCount(t *testing.T) {
	l := New()
	now := time.Now()

	l.Append(NewRecord(Deposit, 50_000, now))
	l.Append(NewRecord(Withdraw, 20_000, now))
	l.Append(NewRecord(Withdraw, 5_000, now))

	if l.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", l.Len())
	}
	if got := l.Count(Withdraw); got != 2 {
		t.Fatalf("expected 2 withdrawals, got %d", got)
	}
	if got := l.Count(Deposit); got != 1 {
		t.Fatalf("expected 1 deposit, got %d", got)
	}
	if got := l.Balance(); got != 25_000 {
		t.Fatalf("expected signed sum 25000, got %d", got)
	}
}

func TestLedger_AllIsOrderedAndRestartable(t *testing.T) {
	var l Ledger
	amounts := []money.Amount{100, 200, 300}
	for _, a := range amounts {
		l.Append(NewRecord(Deposit, a, time.Now()))
	}

	for pass := 0; pass < 2; pass++ {
		i := 0
		for r := range l.All() {
			if r.Amount != amounts[i] {
				t.Fatalf("pass %d: record %d amount=%d want %d", pass, i, r.Amount, amounts[i])
			}
			i++
		}
		if i != len(amounts) {
			t.Fatalf("pass %d: yielded %d records", pass, i)
		}
	}
}

func TestLedger_AllStopsEarly(t *testing.T) {
	var l Ledger
	for i := 0; i < 5; i++ {
		l.Append(NewRecord(Deposit, 1, time.Now()))
	}
	seen := 0
	for range l.All() {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("expected early stop after 2, got %d", seen)
	}
}

func TestLedger_RecordsIsACopy(t *testing.T) {
	var l Ledger
	l.Append(NewRecord(Deposit, 100, time.Now()))
	out := l.Records()
	out[0].Amount = 999
	for r := range l.All() {
		if r.Amount != 100 {
			t.Fatalf("ledger mutated through copy: %d", r.Amount)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("withdraw"); err != nil || k != Withdraw {
		t.Fatalf("unexpected %v %v", k, err)
	}
	if _, err := ParseKind("transfer"); err != ErrUnknownKind {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
