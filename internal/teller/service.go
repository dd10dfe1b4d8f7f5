package teller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/ledger"
	"github.com/dpaula-bank/bank/internal/logging"
	"github.com/dpaula-bank/bank/internal/money"
	"github.com/dpaula-bank/bank/internal/notification"
)

// Service is the single entry point callers use to drive a Bank. Every call runs
// under one mutex so check-then-act sequences on balances and withdrawal counters
// stay atomic when requests arrive concurrently. Results are copies; no pointer
// into the aggregate leaves the service.
type Service struct {
	mu        sync.Mutex
	bank      *bank.Bank
	registrar bank.Registrar
	notifier  notification.Notifier
	logger    *slog.Logger
}

// NewService wraps b. notifier may be nil; a nil logger discards output.
func NewService(b *bank.Bank, notifier notification.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{bank: b, notifier: notifier, logger: logger}
}

// IndividualInput captures the data needed to register a natural person.
type IndividualInput struct {
	TaxID     string
	FullName  string
	BirthDate time.Time
	Address   bank.Address
}

// OrganizationInput captures the data needed to register a legal entity.
type OrganizationInput struct {
	RegistrationID string
	LegalName      string
	Address        bank.Address
}

// ClientView is a snapshot of a client and its accounts.
type ClientView struct {
	ID        string             `json:"id"`
	Kind      bank.ClientKind    `json:"kind"`
	Name      string             `json:"name"`
	BirthDate *time.Time         `json:"birth_date,omitempty"`
	Address   bank.Address       `json:"address"`
	Accounts  []bank.Description `json:"accounts"`
}

// Receipt is returned for every recorded transaction.
type Receipt struct {
	Record  ledger.Record    `json:"record"`
	Account bank.Description `json:"account"`
}

// Statement lists an account's records in chronological order with its current balance.
type Statement struct {
	Account bank.Description `json:"account"`
	Records []ledger.Record  `json:"records"`
	Balance money.Amount     `json:"balance"`
}

// RegisterIndividual adds a natural person after checking the tax id is free.
func (s *Service) RegisterIndividual(ctx context.Context, in IndividualInput) (ClientView, error) {
	c, err := bank.NewIndividual(in.TaxID, in.FullName, in.BirthDate, in.Address)
	if err != nil {
		return ClientView{}, err
	}
	return s.addClient(ctx, c)
}

// RegisterOrganization adds a legal entity after checking the registration id is free.
func (s *Service) RegisterOrganization(ctx context.Context, in OrganizationInput) (ClientView, error) {
	c, err := bank.NewOrganization(in.RegistrationID, in.LegalName, in.Address)
	if err != nil {
		return ClientView{}, err
	}
	return s.addClient(ctx, c)
}

func (s *Service) addClient(ctx context.Context, c bank.Client) (ClientView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bank.AddClient(c); err != nil {
		s.logger.Warn("client registration rejected", slog.String("client_id", c.ID()), slog.Any("error", err))
		return ClientView{}, err
	}
	s.logger.Info("client registered", slog.String("client_id", c.ID()), slog.String("kind", string(c.Kind())))
	s.notify(ctx, notification.Message{
		Kind:        notification.KindClientRegistered,
		Destination: c.ID(),
		Body:        fmt.Sprintf("Welcome, %s", c.Name()),
	})
	return viewClient(c), nil
}

// ClientExists reports whether id is already registered.
func (s *Service) ClientExists(_ context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bank.FindClient(id)
	return ok
}

// Client returns a client snapshot.
func (s *Service) Client(_ context.Context, id string) (ClientView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.bank.Client(id)
	if err != nil {
		return ClientView{}, err
	}
	return viewClient(c), nil
}

// Clients returns every client in registration order.
func (s *Service) Clients(_ context.Context) []ClientView {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ClientView
	for c := range s.bank.Clients() {
		out = append(out, viewClient(c))
	}
	return out
}

// UpdateClient edits a client's name, birth date or address.
func (s *Service) UpdateClient(ctx context.Context, id string, u bank.ClientUpdate) (ClientView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.bank.UpdateClient(id, u)
	if err != nil {
		return ClientView{}, err
	}
	s.logger.Info("client updated", slog.String("client_id", c.ID()))
	s.notify(ctx, notification.Message{Kind: notification.KindClientUpdated, Destination: c.ID(), Body: "Profile updated"})
	return viewClient(c), nil
}

// RemoveClient deletes a client; cascade also removes the client's accounts.
func (s *Service) RemoveClient(ctx context.Context, id string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var closed []string
	if c, ok := s.bank.FindClient(id); ok && cascade {
		for _, a := range c.Accounts() {
			closed = append(closed, a.Number())
		}
	}
	if err := s.bank.RemoveClient(id, cascade); err != nil {
		s.logger.Warn("client removal rejected", slog.String("client_id", id), slog.Any("error", err))
		return err
	}
	s.logger.Info("client removed", slog.String("client_id", id), slog.Any("closed_accounts", closed))
	s.notify(ctx, notification.Message{
		Kind:        notification.KindClientRemoved,
		Destination: id,
		Body:        fmt.Sprintf("Client removed with %d account(s)", len(closed)),
	})
	return nil
}

// OpenAccount opens an account of kind for an existing client.
func (s *Service) OpenAccount(ctx context.Context, clientID string, kind bank.AccountKind) (bank.Description, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.bank.OpenAccount(clientID, bank.AccountParams{Kind: kind})
	if err != nil {
		s.logger.Warn("account opening rejected", slog.String("client_id", clientID), slog.Any("error", err))
		return bank.Description{}, err
	}
	s.logger.Info("account opened", slog.String("client_id", clientID), slog.String("account", a.Number()), slog.String("kind", string(kind)))
	s.notify(ctx, notification.Message{
		Kind:        notification.KindAccountOpened,
		Destination: clientID,
		Body:        fmt.Sprintf("Account %s opened", a.Number()),
		Attributes:  map[string]string{"account": a.Number(), "kind": string(kind)},
	})
	return a.Describe(), nil
}

// CloseAccount detaches a single account from its owner.
func (s *Service) CloseAccount(ctx context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.bank.FindAccount(number)
	if err != nil {
		return err
	}
	owner := a.Owner().ID()
	if err := s.bank.CloseAccount(number); err != nil {
		return err
	}
	s.logger.Info("account closed", slog.String("client_id", owner), slog.String("account", number))
	s.notify(ctx, notification.Message{Kind: notification.KindAccountClosed, Destination: owner, Body: fmt.Sprintf("Account %s closed", number)})
	return nil
}

// Account describes one account.
func (s *Service) Account(_ context.Context, number string) (bank.Description, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.bank.FindAccount(number)
	if err != nil {
		return bank.Description{}, err
	}
	return a.Describe(), nil
}

// Accounts describes every account across all clients.
func (s *Service) Accounts(_ context.Context) []bank.Description {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []bank.Description
	for a := range s.bank.AllAccounts() {
		out = append(out, a.Describe())
	}
	return out
}

// Deposit credits amount to the account.
func (s *Service) Deposit(ctx context.Context, number string, amount money.Amount) (Receipt, error) {
	return s.Register(ctx, number, ledger.Deposit, amount)
}

// Withdraw debits amount from the account.
func (s *Service) Withdraw(ctx context.Context, number string, amount money.Amount) (Receipt, error) {
	return s.Register(ctx, number, ledger.Withdraw, amount)
}

// Register locates the account and hands the operation to the Registrar.
// Rule violations are returned unchanged so callers can match them with errors.Is.
func (s *Service) Register(ctx context.Context, number string, kind ledger.Kind, amount money.Amount) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.bank.FindAccount(number)
	if err != nil {
		return Receipt{}, err
	}
	rec, err := s.registrar.Register(a, kind, amount)
	if err != nil {
		s.logger.Warn("transaction rejected",
			slog.String("account", number),
			slog.String("kind", string(kind)),
			slog.String("amount", amount.String()),
			slog.Any("error", err),
		)
		return Receipt{}, err
	}

	s.logger.Info("transaction recorded",
		slog.String("account", number),
		slog.String("kind", string(kind)),
		slog.String("amount", amount.String()),
		slog.String("balance", a.Balance().String()),
	)
	s.notify(ctx, notification.Message{
		Kind:        notification.KindTransactionRecorded,
		Destination: a.Owner().ID(),
		Body:        fmt.Sprintf("%s of %s on account %s", kind, amount, number),
		Attributes: map[string]string{
			"account": number,
			"kind":    string(kind),
			"amount":  amount.String(),
			"record":  rec.ID,
		},
	})
	return Receipt{Record: rec, Account: a.Describe()}, nil
}

// Statement returns the ordered ledger and current balance of an account.
func (s *Service) Statement(_ context.Context, number string) (Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.bank.FindAccount(number)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Account: a.Describe(), Records: a.Ledger().Records(), Balance: a.Balance()}, nil
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Warn("notification failed", slog.String("kind", msg.Kind), slog.Any("error", err))
	}
}

func viewClient(c bank.Client) ClientView {
	v := ClientView{ID: c.ID(), Kind: c.Kind(), Name: c.Name(), Address: c.Address(), Accounts: []bank.Description{}}
	if ind, ok := c.(*bank.Individual); ok && !ind.BirthDate().IsZero() {
		bd := ind.BirthDate()
		v.BirthDate = &bd
	}
	for _, a := range c.Accounts() {
		v.Accounts = append(v.Accounts, a.Describe())
	}
	return v
}
