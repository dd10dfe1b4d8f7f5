package bank

import (
	"fmt"

	"github.com/dpaula-bank/bank/internal/ledger"
	"github.com/dpaula-bank/bank/internal/money"
)

// AccountKind names an account variant.
type AccountKind string

const (
	KindChecking AccountKind = "checking"
	KindSavings  AccountKind = "savings"
)

// ParseAccountKind accepts "checking"/"savings" and the single-letter menu codes "c"/"p".
func ParseAccountKind(s string) (AccountKind, error) {
	switch s {
	case "checking", "c", "C":
		return KindChecking, nil
	case "savings", "p", "P", "s", "S":
		return KindSavings, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAccountKind, s)
}

// Account is either a *Checking or a *Savings account.
//
// Withdraw and Deposit apply the variant's rules and mutate the balance only;
// recording the ledger entry is the Registrar's job.
type Account interface {
	Number() string
	Agency() string
	Kind() AccountKind
	Owner() Client
	Balance() money.Amount
	Ledger() *ledger.Ledger
	Withdraw(amount money.Amount) error
	Deposit(amount money.Amount) error
	Describe() Description
}

// Description is a read-only summary of an account for presentation layers.
type Description struct {
	Kind           AccountKind  `json:"kind"`
	Agency         string       `json:"agency"`
	Number         string       `json:"number"`
	HolderID       string       `json:"holder_id"`
	Holder         string       `json:"holder"`
	Balance        money.Amount `json:"balance"`
	WithdrawLimit  money.Amount `json:"withdraw_limit,omitempty"`
	MaxWithdrawals int          `json:"max_withdrawals,omitempty"`
	Withdrawals    int          `json:"withdrawals"`
	MinimumDeposit money.Amount `json:"minimum_deposit,omitempty"`
	Deposits       int          `json:"deposits"`
}

// core holds what every account variant shares.
type core struct {
	agency  string
	number  string
	owner   Client
	balance money.Amount
	ledger  *ledger.Ledger
}

func newCore(agency, number string, owner Client) core {
	return core{agency: agency, number: number, owner: owner, ledger: ledger.New()}
}

func (a *core) Number() string         { return a.number }
func (a *core) Agency() string         { return a.agency }
func (a *core) Owner() Client          { return a.owner }
func (a *core) Balance() money.Amount  { return a.balance }
func (a *core) Ledger() *ledger.Ledger { return a.ledger }

func (a *core) withdraw(amount money.Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount > a.balance {
		return fmt.Errorf("%w: balance %s", ErrInsufficientBalance, a.balance)
	}
	a.balance -= amount
	return nil
}

func (a *core) deposit(amount money.Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount > money.Max-a.balance {
		return fmt.Errorf("%w: balance %s", ErrBalanceOverflow, a.balance)
	}
	a.balance += amount
	return nil
}

func (a *core) describe(kind AccountKind) Description {
	return Description{
		Kind:        kind,
		Agency:      a.agency,
		Number:      a.number,
		HolderID:    a.owner.ID(),
		Holder:      a.owner.Name(),
		Balance:     a.balance,
		Withdrawals: a.ledger.Count(ledger.Withdraw),
		Deposits:    a.ledger.Count(ledger.Deposit),
	}
}

// Checking limits the size of each withdrawal and how many withdrawals may be made.
type Checking struct {
	core
	withdrawLimit  money.Amount
	maxWithdrawals int
}

func (a *Checking) Kind() AccountKind           { return KindChecking }
func (a *Checking) WithdrawLimit() money.Amount { return a.withdrawLimit }
func (a *Checking) MaxWithdrawals() int         { return a.maxWithdrawals }

// Withdraw enforces the per-transaction ceiling and the withdrawal cap before the balance check.
// The cap counts every withdrawal recorded in the ledger; it never resets.
func (a *Checking) Withdraw(amount money.Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount > a.withdrawLimit {
		return fmt.Errorf("%w: limit %s", ErrLimitExceeded, a.withdrawLimit)
	}
	if a.ledger.Count(ledger.Withdraw) >= a.maxWithdrawals {
		return fmt.Errorf("%w: %d", ErrDailyWithdrawalCapReached, a.maxWithdrawals)
	}
	return a.withdraw(amount)
}

func (a *Checking) Deposit(amount money.Amount) error {
	return a.deposit(amount)
}

func (a *Checking) Describe() Description {
	d := a.describe(KindChecking)
	d.WithdrawLimit = a.withdrawLimit
	d.MaxWithdrawals = a.maxWithdrawals
	return d
}

// Savings requires its first deposit to reach a minimum; later deposits are unrestricted.
type Savings struct {
	core
	minimumDeposit money.Amount
}

func (a *Savings) Kind() AccountKind            { return KindSavings }
func (a *Savings) MinimumDeposit() money.Amount { return a.minimumDeposit }

// DepositCount is the number of deposits recorded so far.
func (a *Savings) DepositCount() int { return a.ledger.Count(ledger.Deposit) }

// Funded reports whether the opening deposit has been recorded.
func (a *Savings) Funded() bool { return a.DepositCount() > 0 }

func (a *Savings) Withdraw(amount money.Amount) error {
	return a.withdraw(amount)
}

func (a *Savings) Deposit(amount money.Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !a.Funded() && amount < a.minimumDeposit {
		return fmt.Errorf("%w: minimum %s", ErrMinimumDepositNotMet, a.minimumDeposit)
	}
	return a.deposit(amount)
}

func (a *Savings) Describe() Description {
	d := a.describe(KindSavings)
	d.MinimumDeposit = a.minimumDeposit
	return d
}
