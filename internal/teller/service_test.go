package teller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/ledger"
	"github.com/dpaula-bank/bank/internal/logging"
	"github.com/dpaula-bank/bank/internal/money"
	"github.com/dpaula-bank/bank/internal/notification"
)

type recorder struct {
	mu   sync.Mutex
	msgs []notification.Message
	err  error
}

func (r *recorder) Send(_ context.Context, m notification.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
	return r.err
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = m.Kind
	}
	return out
}

func newTestService(n notification.Notifier) *Service {
	return NewService(bank.New(bank.DefaultPolicy()), n, logging.Discard())
}

func sampleAddress() bank.Address {
	return bank.Address{Street: "Rua A", Number: "12", District: "Centro", City: "Recife", State: "PE", PostalCode: "50000-000"}
}

func registerAna(t *testing.T, s *Service) ClientView {
	t.Helper()
	v, err := s.RegisterIndividual(context.Background(), IndividualInput{
		TaxID:     "123",
		FullName:  "Ana Souza",
		BirthDate: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Address:   sampleAddress(),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return v
}

func TestServiceCheckingFlow(t *testing.T) {
	rec := &recorder{}
	s := newTestService(rec)
	ctx := context.Background()
	registerAna(t, s)

	acct, err := s.OpenAccount(ctx, "123", bank.KindChecking)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if acct.Number != "1234-0" || acct.Agency != "0001" {
		t.Fatalf("unexpected account %+v", acct)
	}

	if _, err := s.Deposit(ctx, acct.Number, money.MustParse("1000")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	r, err := s.Withdraw(ctx, acct.Number, money.MustParse("200"))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if r.Record.Kind != ledger.Withdraw || r.Account.Balance != money.MustParse("800") {
		t.Fatalf("unexpected receipt %+v", r)
	}
	if _, err := s.Withdraw(ctx, acct.Number, money.MustParse("600")); !errors.Is(err, bank.ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}

	st, err := s.Statement(ctx, acct.Number)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if len(st.Records) != 2 || st.Balance != money.MustParse("800") {
		t.Fatalf("unexpected statement %+v", st)
	}

	want := []string{
		notification.KindClientRegistered,
		notification.KindAccountOpened,
		notification.KindTransactionRecorded,
		notification.KindTransactionRecorded,
	}
	got := rec.kinds()
	if len(got) != len(want) {
		t.Fatalf("expected notifications %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected notifications %v, got %v", want, got)
		}
	}
}

func TestServiceUnknownAccount(t *testing.T) {
	s := newTestService(nil)
	if _, err := s.Deposit(context.Background(), "1234-9", money.MustParse("10")); !errors.Is(err, bank.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := s.Statement(context.Background(), "1234-9"); !errors.Is(err, bank.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestServiceNilLoggerDiscards(t *testing.T) {
	s := NewService(bank.New(bank.DefaultPolicy()), nil, nil)
	registerAna(t, s)
	acct, err := s.OpenAccount(context.Background(), "123", bank.KindChecking)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Withdraw(context.Background(), acct.Number, money.MustParse("10")); !errors.Is(err, bank.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if _, err := s.Deposit(context.Background(), acct.Number, money.MustParse("10")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
}

func TestServiceDuplicateAndRemoval(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()
	registerAna(t, s)

	if _, err := s.RegisterOrganization(ctx, OrganizationInput{RegistrationID: "123", LegalName: "Acme", Address: sampleAddress()}); !errors.Is(err, bank.ErrDuplicateClient) {
		t.Fatalf("expected ErrDuplicateClient, got %v", err)
	}
	if !s.ClientExists(ctx, "123") || s.ClientExists(ctx, "999") {
		t.Fatalf("unexpected ClientExists result")
	}

	if _, err := s.OpenAccount(ctx, "123", bank.KindSavings); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.RemoveClient(ctx, "123", false); !errors.Is(err, bank.ErrClientHasActiveAccounts) {
		t.Fatalf("expected ErrClientHasActiveAccounts, got %v", err)
	}
	if err := s.RemoveClient(ctx, "123", true); err != nil {
		t.Fatalf("cascade remove: %v", err)
	}
	if len(s.Clients(ctx)) != 0 || len(s.Accounts(ctx)) != 0 {
		t.Fatalf("expected empty bank after cascade removal")
	}
	if _, err := s.Account(ctx, "4321-0"); !errors.Is(err, bank.ErrAccountNotFound) {
		t.Fatalf("expected account to be gone, got %v", err)
	}
}

func TestServiceUpdateAndClose(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()
	registerAna(t, s)

	addr := sampleAddress()
	addr.City = "Olinda"
	v, err := s.UpdateClient(ctx, "123", bank.ClientUpdate{Name: "Ana S. Lima", Address: &addr})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v.Name != "Ana S. Lima" || v.Address.City != "Olinda" || v.BirthDate == nil {
		t.Fatalf("unexpected view %+v", v)
	}

	acct, _ := s.OpenAccount(ctx, "123", bank.KindChecking)
	if err := s.CloseAccount(ctx, acct.Number); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.CloseAccount(ctx, acct.Number); !errors.Is(err, bank.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound on second close, got %v", err)
	}
	if err := s.RemoveClient(ctx, "123", false); err != nil {
		t.Fatalf("remove after close: %v", err)
	}
}

func TestServiceNotifierFailureDoesNotFailOperation(t *testing.T) {
	s := newTestService(&recorder{err: errors.New("stream down")})
	registerAna(t, s)
	if _, err := s.OpenAccount(context.Background(), "123", bank.KindChecking); err != nil {
		t.Fatalf("expected success despite notifier failure, got %v", err)
	}
}

func TestServiceConcurrentWithdrawalsRespectCap(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()
	registerAna(t, s)
	acct, _ := s.OpenAccount(ctx, "123", bank.KindChecking)
	if _, err := s.Deposit(ctx, acct.Number, money.MustParse("1000")); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Withdraw(ctx, acct.Number, money.MustParse("10")); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if ok != bank.DefaultMaxWithdrawals {
		t.Fatalf("expected %d successful withdrawals, got %d", bank.DefaultMaxWithdrawals, ok)
	}
	got, _ := s.Account(ctx, acct.Number)
	if got.Balance != money.MustParse("970") || got.Withdrawals != bank.DefaultMaxWithdrawals {
		t.Fatalf("unexpected account state %+v", got)
	}
}
