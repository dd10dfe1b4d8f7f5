package bank

import "errors"

var (
	// ErrInvalidAmount is returned for zero or negative transaction amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientBalance is returned when a withdrawal exceeds the current balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrLimitExceeded is returned when a checking withdrawal exceeds the per-transaction ceiling.
	ErrLimitExceeded = errors.New("withdrawal limit exceeded")
	// ErrDailyWithdrawalCapReached is returned once a checking account has used all its withdrawals.
	ErrDailyWithdrawalCapReached = errors.New("maximum number of withdrawals reached")
	// ErrMinimumDepositNotMet is returned when a savings account's opening deposit is below the minimum.
	ErrMinimumDepositNotMet = errors.New("minimum opening deposit not met")
	// ErrBalanceOverflow is returned when a deposit would push the balance past the largest representable amount.
	ErrBalanceOverflow = errors.New("deposit would overflow the balance")

	// ErrClientNotFound is returned when no client has the requested identifier.
	ErrClientNotFound = errors.New("client not found")
	// ErrDuplicateClient is returned when registering an identifier that already exists.
	ErrDuplicateClient = errors.New("client already registered")
	// ErrInvalidClient is returned when a client is missing its identifier or name.
	ErrInvalidClient = errors.New("invalid client")
	// ErrAccountNotFound is returned when no account has the requested number.
	ErrAccountNotFound = errors.New("account not found")
	// ErrClientHasActiveAccounts is returned when removing a client that still owns accounts.
	ErrClientHasActiveAccounts = errors.New("client has active accounts")
	// ErrInvalidAccountKind is returned for account kinds other than checking and savings.
	ErrInvalidAccountKind = errors.New("invalid account kind")
)
