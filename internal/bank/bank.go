// Package bank holds the domain core of the simulator: clients, their checking and
// savings accounts, the Bank aggregate that owns them, and the Registrar that couples
// a rule-checked balance change to its ledger entry.
//
// Nothing in this package performs I/O or synchronization. Callers that share a Bank
// across goroutines must serialize access themselves (see the teller package).
package bank

import (
	"fmt"
	"iter"
	"strings"

	"github.com/dpaula-bank/bank/internal/money"
)

var accountPrefixes = map[AccountKind]string{
	KindChecking: "1234",
	KindSavings:  "4321",
}

// Bank is the aggregate root. Accounts are only reachable through their owning client.
type Bank struct {
	policy  Policy
	clients []Client
	seq     map[AccountKind]int
}

// New creates an empty bank. Zero fields in policy fall back to DefaultPolicy.
func New(policy Policy) *Bank {
	return &Bank{
		policy: policy.withDefaults(),
		seq:    make(map[AccountKind]int, len(accountPrefixes)),
	}
}

// Policy returns the parameters applied to new accounts.
func (b *Bank) Policy() Policy {
	return b.policy
}

// AddClient registers a client whose identifier is not yet taken.
func (b *Bank) AddClient(c Client) error {
	if c == nil {
		return ErrInvalidClient
	}
	if _, ok := b.FindClient(c.ID()); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateClient, c.ID())
	}
	b.clients = append(b.clients, c)
	return nil
}

// FindClient looks a client up by identifier.
func (b *Bank) FindClient(id string) (Client, bool) {
	id = strings.TrimSpace(id)
	for _, c := range b.clients {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Client is FindClient returning ErrClientNotFound on a miss.
func (b *Bank) Client(id string) (Client, error) {
	c, ok := b.FindClient(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	return c, nil
}

// Clients yields clients in registration order.
func (b *Bank) Clients() iter.Seq[Client] {
	return func(yield func(Client) bool) {
		for _, c := range b.clients {
			if !yield(c) {
				return
			}
		}
	}
}

// UpdateClient edits name, birth date and address of an existing client.
func (b *Bank) UpdateClient(id string, u ClientUpdate) (Client, error) {
	c, err := b.Client(id)
	if err != nil {
		return nil, err
	}
	applyUpdate(c, u)
	return c, nil
}

// AccountParams overrides policy values for a single account. Zero fields use the policy.
type AccountParams struct {
	Kind           AccountKind
	WithdrawLimit  money.Amount
	MaxWithdrawals int
	MinimumDeposit money.Amount
}

// OpenAccount creates an account of the requested kind for an existing client.
// The number is drawn from the kind's own sequence and never reused.
func (b *Bank) OpenAccount(clientID string, params AccountParams) (Account, error) {
	prefix, ok := accountPrefixes[params.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccountKind, params.Kind)
	}
	owner, err := b.Client(clientID)
	if err != nil {
		return nil, err
	}

	number := fmt.Sprintf("%s-%d", prefix, b.seq[params.Kind])
	b.seq[params.Kind]++

	base := newCore(b.policy.Agency, number, owner)
	var acct Account
	switch params.Kind {
	case KindChecking:
		c := &Checking{core: base, withdrawLimit: params.WithdrawLimit, maxWithdrawals: params.MaxWithdrawals}
		if c.withdrawLimit <= 0 {
			c.withdrawLimit = b.policy.WithdrawLimit
		}
		if c.maxWithdrawals <= 0 {
			c.maxWithdrawals = b.policy.MaxWithdrawals
		}
		acct = c
	case KindSavings:
		s := &Savings{core: base, minimumDeposit: params.MinimumDeposit}
		if s.minimumDeposit <= 0 {
			s.minimumDeposit = b.policy.MinimumDeposit
		}
		acct = s
	}

	owner.base().attach(acct)
	return acct, nil
}

// AllAccounts yields every account of every client, in client registration order.
func (b *Bank) AllAccounts() iter.Seq[Account] {
	return func(yield func(Account) bool) {
		for _, c := range b.clients {
			for _, a := range c.base().accounts {
				if !yield(a) {
					return
				}
			}
		}
	}
}

// FindAccount looks an account up by number.
func (b *Bank) FindAccount(number string) (Account, error) {
	number = strings.TrimSpace(number)
	for a := range b.AllAccounts() {
		if a.Number() == number {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, number)
}

// CloseAccount detaches a single account from its owner.
func (b *Bank) CloseAccount(number string) error {
	a, err := b.FindAccount(number)
	if err != nil {
		return err
	}
	a.Owner().base().detach(a.Number())
	return nil
}

// RemoveClient deletes a client. A client that owns accounts is only removed when
// cascade is set, in which case its accounts go with it. On error nothing changes.
func (b *Bank) RemoveClient(id string, cascade bool) error {
	id = strings.TrimSpace(id)
	idx := -1
	for i, c := range b.clients {
		if c.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	c := b.clients[idx]
	if c.HasAccounts() && !cascade {
		return fmt.Errorf("%w: %d account(s)", ErrClientHasActiveAccounts, len(c.base().accounts))
	}
	c.base().accounts = nil
	b.clients = append(b.clients[:idx], b.clients[idx+1:]...)
	return nil
}
