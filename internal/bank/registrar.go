package bank

import (
	"time"

	"github.com/dpaula-bank/bank/internal/ledger"
	"github.com/dpaula-bank/bank/internal/money"
)

// Registrar applies a deposit or withdrawal to an account and, only when the
// account accepts it, appends the matching record to the account's ledger.
// The zero value stamps records with time.Now.
type Registrar struct {
	Clock func() time.Time
}

// Register runs the account's rule-checked mutator for kind and records the result.
// A rejected operation returns the account's error and leaves the ledger untouched.
func (r Registrar) Register(acct Account, kind ledger.Kind, amount money.Amount) (ledger.Record, error) {
	var err error
	switch kind {
	case ledger.Deposit:
		err = acct.Deposit(amount)
	case ledger.Withdraw:
		err = acct.Withdraw(amount)
	default:
		err = ledger.ErrUnknownKind
	}
	if err != nil {
		return ledger.Record{}, err
	}

	rec := ledger.NewRecord(kind, amount, r.now())
	acct.Ledger().Append(rec)
	return rec, nil
}

func (r Registrar) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}
