package bank

import "github.com/dpaula-bank/bank/internal/money"

const (
	// DefaultAgency is the branch identifier shared by every account.
	DefaultAgency = "0001"
	// DefaultMaxWithdrawals is the number of withdrawals a checking account may make.
	DefaultMaxWithdrawals = 3
)

var (
	// DefaultWithdrawLimit is the per-transaction ceiling for checking withdrawals.
	DefaultWithdrawLimit = money.FromUnits(500)
	// DefaultMinimumDeposit is the opening deposit required by savings accounts.
	DefaultMinimumDeposit = money.FromUnits(100)
)

// Policy holds the bank-wide parameters applied to newly opened accounts.
type Policy struct {
	Agency         string
	WithdrawLimit  money.Amount
	MaxWithdrawals int
	MinimumDeposit money.Amount
}

// DefaultPolicy returns the stock simulator parameters.
func DefaultPolicy() Policy {
	return Policy{
		Agency:         DefaultAgency,
		WithdrawLimit:  DefaultWithdrawLimit,
		MaxWithdrawals: DefaultMaxWithdrawals,
		MinimumDeposit: DefaultMinimumDeposit,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.Agency == "" {
		p.Agency = d.Agency
	}
	if p.WithdrawLimit <= 0 {
		p.WithdrawLimit = d.WithdrawLimit
	}
	if p.MaxWithdrawals <= 0 {
		p.MaxWithdrawals = d.MaxWithdrawals
	}
	if p.MinimumDeposit <= 0 {
		p.MinimumDeposit = d.MinimumDeposit
	}
	return p
}
