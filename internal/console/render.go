package console

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/ledger"
	"github.com/dpaula-bank/bank/internal/teller"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

const timestampLayout = "02/01/2006 15:04:05"

// ColorEnabled reports whether f is an interactive terminal that can render ANSI colors.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type level int

const (
	levelSuccess level = iota
	levelNotice
	levelWarning
	levelError
)

var levelStyles = map[level]struct{ icon, color string }{
	levelSuccess: {"✔", ansiGreen},
	levelNotice:  {"⚠", ansiGreen},
	levelWarning: {"⚠", ansiYellow},
	levelError:   {"✖", ansiRed},
}

func (c *Console) paint(color, s string) string {
	if !c.color {
		return s
	}
	return color + s + ansiReset
}

func (c *Console) message(l level, format string, args ...any) {
	st := levelStyles[l]
	fmt.Fprintf(c.out, "\n\t %s  %s\n", c.paint(st.color, st.icon), fmt.Sprintf(format, args...))
}

func (c *Console) rule(ch string, n int) {
	fmt.Fprintf(c.out, "\t%s\n", strings.Repeat(ch, n))
}

func (c *Console) printMenu() {
	fmt.Fprintf(c.out, "\n\t%s\n", strings.Repeat("═", 50))
	fmt.Fprintf(c.out, "\t%s\n", centered(c.appName, 50))
	fmt.Fprintf(c.out, "\t%s\n", strings.Repeat("═", 50))
	for _, item := range menu {
		fmt.Fprintf(c.out, "\t [%2s] %s\n", item.key, item.label)
	}
	fmt.Fprintf(c.out, "\t%s\n", strings.Repeat("─", 50))
}

func centered(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

func (c *Console) printStatement(st teller.Statement) {
	fmt.Fprintf(c.out, "\n\t╔%s STATEMENT %s╗\n\n", strings.Repeat("═", 20), strings.Repeat("═", 20))
	if len(st.Records) == 0 {
		c.message(levelNotice, "No transactions have been made on this account.")
	}
	for _, r := range st.Records {
		sign, label, color := " => ", "Deposit:    ", ansiGreen
		if r.Kind == ledger.Withdraw {
			sign, label, color = " <= ", "Withdrawal: ", ansiRed
		}
		fmt.Fprintf(c.out, "\t  %s%s%s R$ %s\n", r.Timestamp.In(c.loc).Format(timestampLayout), c.paint(color, sign), label, r.Amount)
	}
	balance := st.Balance.String()
	fmt.Fprintf(c.out, "\n\t   %s\n", strings.Repeat("─", len(balance)+13))
	fmt.Fprintf(c.out, "\t    Balance: R$ %s\n", balance)
	fmt.Fprintf(c.out, "\t╚%s╝\n", strings.Repeat("═", 51))
}

func (c *Console) printAddress(a bank.Address) {
	c.rule("─", 50)
	fmt.Fprintf(c.out, "\t Street: %s, Number: %s\n", a.Street, a.Number)
	fmt.Fprintf(c.out, "\t District: %s - Postal code: %s\n", a.District, a.PostalCode)
	fmt.Fprintf(c.out, "\t City: %s/%s\n", a.City, a.State)
	c.rule("─", 50)
}

func accountLabel(k bank.AccountKind) string {
	if k == bank.KindSavings {
		return "Savings Account"
	}
	return "Checking Account"
}

func (c *Console) printClient(v teller.ClientView) {
	c.rule("═", 50)
	if v.Kind == bank.KindIndividual {
		fmt.Fprintf(c.out, "\t Name: %s\n", v.Name)
		fmt.Fprintf(c.out, "\t Tax ID: %s\n", v.ID)
		if v.BirthDate != nil {
			fmt.Fprintf(c.out, "\t Birth date: %s\n", v.BirthDate.Format(dateLayout))
		}
	} else {
		fmt.Fprintf(c.out, "\t Legal name: %s\n", v.Name)
		fmt.Fprintf(c.out, "\t Registration ID: %s\n", v.ID)
	}
	fmt.Fprintf(c.out, "\t Address: %s\n", v.Address)

	if len(v.Accounts) == 0 {
		c.message(levelWarning, "No accounts linked to this client.")
		return
	}
	fmt.Fprintf(c.out, "\n\t Linked accounts:\n")
	c.rule("─", 33)
	for _, a := range v.Accounts {
		fmt.Fprintf(c.out, "\t %s  %-10s %s\n", c.paint(ansiGreen, "✔"), a.Number, accountLabel(a.Kind))
	}
	c.rule("─", 33)
}

func (c *Console) printAccount(idx int, d bank.Description) {
	fmt.Fprintf(c.out, "\n\t Account #%d\n", idx)
	fmt.Fprintf(c.out, "\t Agency:          %s\n", d.Agency)
	fmt.Fprintf(c.out, "\t Account number:  %s\n", d.Number)
	fmt.Fprintf(c.out, "\t Type:            %s\n", accountLabel(d.Kind))
	fmt.Fprintf(c.out, "\t Holder:          %s\n", d.Holder)
	fmt.Fprintf(c.out, "\t Balance:         R$ %s\n", d.Balance)
	if d.Kind == bank.KindChecking {
		fmt.Fprintf(c.out, "\t Withdrawals:     %d of %d (limit R$ %s each)\n", d.Withdrawals, d.MaxWithdrawals, d.WithdrawLimit)
	}
	c.rule("─", 50)
}
