package ledger

import (
	"errors"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/dpaula-bank/bank/internal/money"
)

// Kind identifies the direction of a recorded transaction.
type Kind string

const (
	// Deposit credits the account.
	Deposit Kind = "deposit"
	// Withdraw debits the account.
	Withdraw Kind = "withdraw"
)

// ErrUnknownKind is returned when a kind other than Deposit or Withdraw is supplied.
var ErrUnknownKind = errors.New("unknown transaction kind")

// ParseKind maps a textual kind to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Deposit, Withdraw:
		return Kind(s), nil
	}
	return "", ErrUnknownKind
}

// Record is an immutable ledger entry. Amount is always a positive magnitude.
type Record struct {
	ID        string       `json:"id"`
	Kind      Kind         `json:"kind"`
	Amount    money.Amount `json:"amount"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewRecord stamps a record with a fresh identifier and the given time.
func NewRecord(kind Kind, amount money.Amount, at time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		Amount:    amount,
		Timestamp: at.UTC(),
	}
}

// Signed returns the amount with the sign of its effect on the balance.
func (r Record) Signed() money.Amount {
	if r.Kind == Withdraw {
		return -r.Amount
	}
	return r.Amount
}

// Ledger is the append-only transaction history of a single account.
// The zero value is ready to use.
type Ledger struct {
	records []Record
	counts  map[Kind]int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds a record at the end of the ledger.
func (l *Ledger) Append(r Record) {
	if l.counts == nil {
		l.counts = make(map[Kind]int, 2)
	}
	l.records = append(l.records, r)
	l.counts[r.Kind]++
}

// Count returns how many records of the given kind have been appended.
func (l *Ledger) Count(kind Kind) int {
	return l.counts[kind]
}

// Len returns the total number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// All yields records in append order. Each call starts a fresh pass.
func (l *Ledger) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range l.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Records returns a copy of the history.
func (l *Ledger) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Balance is the signed sum of every record, starting from zero.
func (l *Ledger) Balance() money.Amount {
	var total money.Amount
	for _, r := range l.records {
		total += r.Signed()
	}
	return total
}
