// Package console runs the interactive, menu-driven front end of the simulator.
// It talks to the bank only through teller.Service and prints every rule
// violation as a message before returning to the menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dpaula-bank/bank/internal/address"
	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/money"
	"github.com/dpaula-bank/bank/internal/teller"
)

const dateLayout = "02/01/2006"

type menuItem struct {
	key    string
	label  string
	action func(*Console, context.Context) error
}

var menu = []menuItem{
	{"1", "Withdraw", (*Console).withdraw},
	{"2", "Deposit", (*Console).deposit},
	{"3", "Statement", (*Console).statement},
	{"4", "New account", (*Console).newAccount},
	{"5", "Quit", nil},
	{"6", "Register client", (*Console).registerClient},
	{"7", "Show client", (*Console).showClient},
	{"8", "Update client", (*Console).updateClient},
	{"9", "Remove client", (*Console).removeClient},
	{"10", "List accounts", (*Console).listAccounts},
	{"11", "List clients", (*Console).listClients},
}

// Console reads commands from in and writes prompts and results to out.
type Console struct {
	in      *bufio.Reader
	out     io.Writer
	teller  *teller.Service
	lookup  address.Lookup
	policy  bank.Policy
	logger  *slog.Logger
	appName string
	color   bool
	loc     *time.Location
}

// Option customizes a Console.
type Option func(*Console)

// WithColor enables ANSI colors.
func WithColor(enabled bool) Option { return func(c *Console) { c.color = enabled } }

// WithAppName sets the banner title.
func WithAppName(name string) Option { return func(c *Console) { c.appName = name } }

// WithLocation sets the time zone used for statement timestamps.
func WithLocation(loc *time.Location) Option { return func(c *Console) { c.loc = loc } }

// WithAddressLookup enables postal code lookups during registration and updates.
func WithAddressLookup(l address.Lookup) Option { return func(c *Console) { c.lookup = l } }

// New builds a console over svc. policy is only used to word prompts.
func New(in io.Reader, out io.Writer, svc *teller.Service, policy bank.Policy, logger *slog.Logger, opts ...Option) *Console {
	c := &Console{
		in:      bufio.NewReader(in),
		out:     out,
		teller:  svc,
		policy:  policy,
		logger:  logger,
		appName: "Banco D'Paula",
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run shows the menu until the user quits, input ends or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	c.message(levelNotice, "Welcome to %s!", c.appName)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printMenu()
		choice, err := c.ask("Select an operation: ")
		if err != nil {
			return eofIsQuit(err)
		}
		item, ok := lookupMenu(choice)
		if !ok {
			c.message(levelError, "Invalid option! Choose again.")
			continue
		}
		if item.action == nil {
			fmt.Fprintf(c.out, "\n\t Thank you for using %s! Goodbye!\n\n", c.appName)
			return nil
		}
		if err := item.action(c, ctx); err != nil {
			return eofIsQuit(err)
		}
	}
}

func lookupMenu(key string) (menuItem, bool) {
	for _, item := range menu {
		if item.key == key {
			return item, true
		}
	}
	return menuItem{}, false
}

func eofIsQuit(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ask prints prompt and returns the trimmed answer. io.EOF is returned once input is exhausted.
func (c *Console) ask(prompt string) (string, error) {
	fmt.Fprintf(c.out, "\t %s", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) confirm(prompt string) (bool, error) {
	answer, err := c.ask(prompt + " (Y/N): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "sim":
		return true, nil
	}
	return false, nil
}

// askAmount repeats the prompt until a well-formed amount is entered.
func (c *Console) askAmount(prompt string) (money.Amount, error) {
	for {
		raw, err := c.ask(prompt)
		if err != nil {
			return 0, err
		}
		amount, err := money.Parse(raw)
		if err == nil {
			return amount, nil
		}
		c.message(levelWarning, "Enter a valid amount.")
	}
}

func (c *Console) askAccountKind() (bank.AccountKind, error) {
	for {
		raw, err := c.ask("Enter (C) for a checking account or (P) for a savings account: ")
		if err != nil {
			return "", err
		}
		kind, err := bank.ParseAccountKind(raw)
		if err == nil {
			return kind, nil
		}
		c.message(levelError, `Invalid option. Choose "C" for checking or "P" for savings.`)
	}
}

func (c *Console) askDate(prompt string, optional bool) (time.Time, error) {
	for {
		raw, err := c.ask(prompt)
		if err != nil {
			return time.Time{}, err
		}
		if raw == "" && optional {
			return time.Time{}, nil
		}
		d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err == nil {
			return d, nil
		}
		c.message(levelWarning, "Enter a date as dd/mm/yyyy.")
	}
}

// report prints a rule violation. Unknown errors are logged and shown verbatim.
func (c *Console) report(err error) {
	switch {
	case errors.Is(err, bank.ErrInvalidAmount):
		c.message(levelError, "Operation failed! The amount entered is invalid.")
	case errors.Is(err, bank.ErrInsufficientBalance):
		c.message(levelError, "Insufficient balance for this withdrawal.")
	case errors.Is(err, bank.ErrLimitExceeded):
		c.message(levelError, "Withdrawal amount exceeds the limit of R$ %s.", c.policy.WithdrawLimit)
	case errors.Is(err, bank.ErrDailyWithdrawalCapReached):
		c.message(levelError, "Maximum number of withdrawals reached.")
	case errors.Is(err, bank.ErrMinimumDepositNotMet):
		c.message(levelError, "Minimum deposit not met.")
	case errors.Is(err, bank.ErrBalanceOverflow):
		c.message(levelError, "Deposit rejected: the balance would exceed the maximum supported amount.")
	case errors.Is(err, bank.ErrAccountNotFound):
		c.message(levelError, "Account not found.")
	case errors.Is(err, bank.ErrClientNotFound):
		c.message(levelWarning, "Client not found.")
	case errors.Is(err, bank.ErrDuplicateClient):
		c.message(levelWarning, "Client already registered.")
	case errors.Is(err, bank.ErrClientHasActiveAccounts):
		c.message(levelWarning, "Client has active accounts.")
	case errors.Is(err, bank.ErrInvalidClient):
		c.message(levelError, "Identifier and name are required.")
	default:
		c.logger.Error("console operation failed", slog.Any("error", err))
		c.message(levelError, "%v", err)
	}
}
