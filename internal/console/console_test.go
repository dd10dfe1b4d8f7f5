package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dpaula-bank/bank/internal/address"
	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/logging"
	"github.com/dpaula-bank/bank/internal/teller"
)

type stubLookup map[string]bank.Address

func (s stubLookup) Lookup(_ context.Context, postalCode string) (bank.Address, error) {
	digits, err := address.Normalize(postalCode)
	if err != nil {
		return bank.Address{}, err
	}
	if a, ok := s[digits]; ok {
		return a, nil
	}
	return bank.Address{}, address.ErrAddressNotFound
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func run(t *testing.T, svc *teller.Service, in *strings.Reader, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithLocation(time.UTC)}, opts...)
	c := New(in, &out, svc, bank.DefaultPolicy(), logging.Discard(), opts...)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func newService() *teller.Service {
	return teller.NewService(bank.New(bank.DefaultPolicy()), nil, logging.Discard())
}

func seedClient(t *testing.T, svc *teller.Service, id string) {
	t.Helper()
	_, err := svc.RegisterOrganization(context.Background(), teller.OrganizationInput{
		RegistrationID: id,
		LegalName:      "Acme Ltda",
		Address:        bank.Address{Street: "Av. Central", Number: "1", City: "Recife", State: "PE"},
	})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Fatalf("expected output to contain %q\n%s", w, out)
		}
	}
}

func TestConsoleCheckingSession(t *testing.T) {
	svc := newService()
	out := run(t, svc, script(
		"6", "f", "123", "Ana Souza", "17/05/1990", "50000-000", "Rua A", "12", "Centro", "Recife", "pe",
		"4", "123", "c",
		"2", "1234-0", "1000",
		"1", "1234-0", "600",
		"1", "1234-0", "200,00",
		"3", "1234-0",
		"5",
	))

	assertContains(t, out,
		"Client Ana Souza registered successfully.",
		"Account 1234-0 created successfully!",
		"exceeds the limit of R$ 500.00",
		"Withdrawal of R$ 200.00 completed. Balance: R$ 800.00",
		" => Deposit:     R$ 1000.00",
		" <= Withdrawal:  R$ 200.00",
		"Balance: R$ 800.00",
		"Goodbye",
	)

	v, err := svc.Client(context.Background(), "123")
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if v.Address.State != "PE" || v.BirthDate == nil || v.BirthDate.Format(dateLayout) != "17/05/1990" {
		t.Fatalf("unexpected client %+v", v)
	}
}

func TestConsoleSavingsOpeningLoop(t *testing.T) {
	svc := newService()
	seedClient(t, svc, "99")
	out := run(t, svc, script("4", "99", "x", "p", "50", "abc", "150", "3", "4321-0", "5"))

	assertContains(t, out,
		`Invalid option. Choose "C" for checking or "P" for savings.`,
		"Minimum deposit not met. Amount entered: R$ 50.00",
		"Enter a valid amount.",
		"Account 4321-0 created successfully!",
		"Balance: R$ 150.00",
	)
	d, err := svc.Account(context.Background(), "4321-0")
	if err != nil || d.Deposits != 1 {
		t.Fatalf("expected funded savings account, got %+v %v", d, err)
	}
}

func TestConsoleAbandonedSavingsIsClosed(t *testing.T) {
	svc := newService()
	seedClient(t, svc, "99")
	run(t, svc, script("4", "99", "p", "50"))

	if accounts := svc.Accounts(context.Background()); len(accounts) != 0 {
		t.Fatalf("expected unfunded account to be closed, got %+v", accounts)
	}
}

func TestConsoleRemoveClientNeedsTwoConfirmations(t *testing.T) {
	svc := newService()
	seedClient(t, svc, "99")
	if _, err := svc.OpenAccount(context.Background(), "99", bank.KindChecking); err != nil {
		t.Fatalf("open: %v", err)
	}

	out := run(t, svc, script("9", "99", "n", "9", "99", "y", "n", "5"))
	assertContains(t, out, "Client removal cancelled because of active accounts.", "Removal cancelled.")
	if !svc.ClientExists(context.Background(), "99") {
		t.Fatalf("client should survive cancelled removals")
	}

	out = run(t, svc, script("9", "99", "y", "y", "5"))
	assertContains(t, out, "All of the client's accounts were deleted.", "Client deleted successfully.")
	if svc.ClientExists(context.Background(), "99") {
		t.Fatalf("client should be removed")
	}
}

func TestConsoleAddressLookup(t *testing.T) {
	svc := newService()
	lookup := stubLookup{"01001000": {Street: "Praça da Sé", District: "Sé", City: "São Paulo", State: "SP", PostalCode: "01001-000"}}
	out := run(t, svc, script(
		"6", "j", "777", "Acme Ltda", "01001-000", "100",
		"8", "777", "", "y", "00000-000", "Rua B", "9", "Boa Vista", "Recife", "PE", "y",
		"7", "777",
		"5",
	), WithAddressLookup(lookup))

	assertContains(t, out,
		"Street: Praça da Sé, Number: 100",
		"Postal code not found, enter the address manually.",
		"Client updated successfully.",
		"Legal name: Acme Ltda",
		"Address: Rua B, 9, Boa Vista - Recife/PE - 00000-000",
		"No accounts linked to this client.",
	)
}

func TestConsoleRejections(t *testing.T) {
	svc := newService()
	out := run(t, svc, script("42", "2", "1234-9", "4", "nobody", "7", "nobody", "10", "11"))

	assertContains(t, out,
		"Invalid option! Choose again.",
		"Account 1234-9 not found.",
		"Client not found!",
		"Client not found.",
		"No accounts registered.",
		"No clients registered.",
	)
}

func TestConsoleColoredStatement(t *testing.T) {
	svc := newService()
	seedClient(t, svc, "99")
	acct, _ := svc.OpenAccount(context.Background(), "99", bank.KindChecking)
	out := run(t, svc, script("3", acct.Number, "5"), WithColor(true))
	assertContains(t, out, "No transactions have been made on this account.", ansiGreen)

	if _, err := svc.Deposit(context.Background(), acct.Number, 1000); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	out = run(t, svc, script("3", acct.Number, "5"), WithColor(true))
	assertContains(t, out, ansiGreen+" => "+ansiReset+"Deposit:")
}
