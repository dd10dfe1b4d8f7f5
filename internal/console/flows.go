package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dpaula-bank/bank/internal/address"
	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/teller"
)

func (c *Console) withdraw(ctx context.Context) error {
	number, err := c.ask("Enter the account number: ")
	if err != nil {
		return err
	}
	if _, err := c.teller.Account(ctx, number); err != nil {
		c.message(levelError, "Account %s not found.", number)
		return nil
	}
	amount, err := c.askAmount("Enter the withdrawal amount: ")
	if err != nil {
		return err
	}
	r, err := c.teller.Withdraw(ctx, number, amount)
	if err != nil {
		c.report(err)
		return nil
	}
	c.message(levelSuccess, "Withdrawal of R$ %s completed. Balance: R$ %s", amount, r.Account.Balance)
	return nil
}

func (c *Console) deposit(ctx context.Context) error {
	number, err := c.ask("Enter the account number: ")
	if err != nil {
		return err
	}
	if _, err := c.teller.Account(ctx, number); err != nil {
		c.message(levelError, "Account %s not found.", number)
		return nil
	}
	amount, err := c.askAmount("Enter the deposit amount: ")
	if err != nil {
		return err
	}
	r, err := c.teller.Deposit(ctx, number, amount)
	if err != nil {
		c.report(err)
		return nil
	}
	c.message(levelSuccess, "Deposit of R$ %s completed. Balance: R$ %s", amount, r.Account.Balance)
	return nil
}

func (c *Console) statement(ctx context.Context) error {
	number, err := c.ask("Enter the account number: ")
	if err != nil {
		return err
	}
	st, err := c.teller.Statement(ctx, number)
	if err != nil {
		c.message(levelError, "Account %s not found.", number)
		return nil
	}
	c.printStatement(st)
	return nil
}

// newAccount opens an account. A savings account stays in the opening loop until
// its minimum deposit succeeds; if input ends first the account is closed again.
func (c *Console) newAccount(ctx context.Context) error {
	id, err := c.ask("Enter the client's tax or registration ID: ")
	if err != nil {
		return err
	}
	if !c.teller.ClientExists(ctx, id) {
		c.message(levelWarning, "Client not found!")
		return nil
	}
	kind, err := c.askAccountKind()
	if err != nil {
		return err
	}
	acct, err := c.teller.OpenAccount(ctx, id, kind)
	if err != nil {
		c.report(err)
		return nil
	}

	if kind == bank.KindSavings {
		if err := c.fundSavings(ctx, acct); err != nil {
			if cerr := c.teller.CloseAccount(ctx, acct.Number); cerr != nil {
				c.logger.Warn("close unfunded savings account", slog.String("account", acct.Number), slog.Any("error", cerr))
			}
			return err
		}
	}
	c.message(levelSuccess, "Account %s created successfully!", acct.Number)
	return nil
}

func (c *Console) fundSavings(ctx context.Context, acct bank.Description) error {
	for {
		c.message(levelNotice, "A minimum deposit of R$ %s is required to open a savings account.", acct.MinimumDeposit)
		amount, err := c.askAmount(fmt.Sprintf("Opening deposit (minimum R$ %s): ", acct.MinimumDeposit))
		if err != nil {
			return err
		}
		_, err = c.teller.Deposit(ctx, acct.Number, amount)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, bank.ErrMinimumDepositNotMet):
			c.message(levelError, "Minimum deposit not met. Amount entered: R$ %s", amount)
		default:
			c.report(err)
		}
	}
}

func (c *Console) registerClient(ctx context.Context) error {
	var kind bank.ClientKind
	for kind == "" {
		raw, err := c.ask("Enter (F) for an individual or (J) for an organization: ")
		if err != nil {
			return err
		}
		switch strings.ToLower(raw) {
		case "f":
			kind = bank.KindIndividual
		case "j":
			kind = bank.KindOrganization
		default:
			c.message(levelError, `Invalid option. Choose "F" for individual or "J" for organization.`)
		}
	}

	id, err := c.ask("Enter the tax or registration ID (digits only): ")
	if err != nil {
		return err
	}
	if c.teller.ClientExists(ctx, id) {
		c.message(levelWarning, "Client already registered.")
		return nil
	}

	var view teller.ClientView
	if kind == bank.KindIndividual {
		name, err := c.ask("Enter the full name: ")
		if err != nil {
			return err
		}
		birth, err := c.askDate("Enter the birth date (dd/mm/yyyy): ", false)
		if err != nil {
			return err
		}
		addr, err := c.askAddress(ctx, "Residence number: ")
		if err != nil {
			return err
		}
		view, err = c.teller.RegisterIndividual(ctx, teller.IndividualInput{TaxID: id, FullName: name, BirthDate: birth, Address: addr})
		if err != nil {
			c.report(err)
			return nil
		}
	} else {
		name, err := c.ask("Enter the legal name: ")
		if err != nil {
			return err
		}
		addr, err := c.askAddress(ctx, "Building number: ")
		if err != nil {
			return err
		}
		view, err = c.teller.RegisterOrganization(ctx, teller.OrganizationInput{RegistrationID: id, LegalName: name, Address: addr})
		if err != nil {
			c.report(err)
			return nil
		}
	}
	c.message(levelSuccess, "Client %s registered successfully.", view.Name)
	return nil
}

// askAddress resolves a postal code and asks for the street number, falling back
// to manual entry when the code is unknown or no lookup is configured.
func (c *Console) askAddress(ctx context.Context, numberPrompt string) (bank.Address, error) {
	cep, err := c.ask("Enter the postal code: ")
	if err != nil {
		return bank.Address{}, err
	}
	if c.lookup != nil {
		addr, lerr := c.lookup.Lookup(ctx, cep)
		if lerr == nil {
			if addr.Number, err = c.ask(numberPrompt); err != nil {
				return bank.Address{}, err
			}
			c.printAddress(addr)
			return addr, nil
		}
		if !errors.Is(lerr, address.ErrAddressNotFound) {
			c.logger.Warn("address lookup failed", slog.String("postal_code", cep), slog.Any("error", lerr))
		}
		c.message(levelError, "Postal code not found, enter the address manually.")
	}
	return c.askManualAddress(cep)
}

func (c *Console) askManualAddress(postalCode string) (bank.Address, error) {
	addr := bank.Address{PostalCode: postalCode}
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Street: ", &addr.Street},
		{"Number: ", &addr.Number},
		{"District: ", &addr.District},
		{"City: ", &addr.City},
		{"State (UF): ", &addr.State},
	}
	for _, f := range fields {
		v, err := c.ask(f.prompt)
		if err != nil {
			return bank.Address{}, err
		}
		*f.dst = v
	}
	addr.State = strings.ToUpper(addr.State)
	return addr, nil
}

func (c *Console) showClient(ctx context.Context) error {
	id, err := c.ask("Enter the client's tax or registration ID: ")
	if err != nil {
		return err
	}
	v, err := c.teller.Client(ctx, id)
	if err != nil {
		c.report(err)
		return nil
	}
	c.printClient(v)
	return nil
}

func (c *Console) updateClient(ctx context.Context) error {
	id, err := c.ask("Enter the client's tax or registration ID: ")
	if err != nil {
		return err
	}
	current, err := c.teller.Client(ctx, id)
	if err != nil {
		c.report(err)
		return nil
	}

	fmt.Fprintln(c.out, "\t Leave blank to keep the current value.")
	var u bank.ClientUpdate
	if u.Name, err = c.ask(fmt.Sprintf("Current name: %s. New name: ", current.Name)); err != nil {
		return err
	}
	if current.Kind == bank.KindIndividual {
		shown := ""
		if current.BirthDate != nil {
			shown = current.BirthDate.Format(dateLayout)
		}
		if u.BirthDate, err = c.askDate(fmt.Sprintf("Current birth date: %s. New date (dd/mm/yyyy): ", shown), true); err != nil {
			return err
		}
	}

	change, err := c.confirm("Update the address?")
	if err != nil {
		return err
	}
	if change {
		addr, err := c.askAddress(ctx, "Number: ")
		if err != nil {
			return err
		}
		ok, err := c.confirm("Confirm the new address?")
		if err != nil {
			return err
		}
		if ok {
			u.Address = &addr
		}
	}

	if _, err := c.teller.UpdateClient(ctx, id, u); err != nil {
		c.report(err)
		return nil
	}
	c.message(levelSuccess, "Client updated successfully.")
	return nil
}

// removeClient asks once to drop the client's accounts, when it has any, and
// once more to delete the client itself.
func (c *Console) removeClient(ctx context.Context) error {
	id, err := c.ask("Enter the client's tax or registration ID: ")
	if err != nil {
		return err
	}
	v, err := c.teller.Client(ctx, id)
	if err != nil {
		c.report(err)
		return nil
	}

	cascade := false
	if len(v.Accounts) > 0 {
		c.message(levelWarning, "Client has active accounts.")
		if cascade, err = c.confirm("Delete all of the client's accounts?"); err != nil {
			return err
		}
		if !cascade {
			c.message(levelWarning, "Client removal cancelled because of active accounts.")
			return nil
		}
	}

	ok, err := c.confirm("Are you sure you want to delete the client?")
	if err != nil {
		return err
	}
	if !ok {
		c.message(levelWarning, "Removal cancelled.")
		return nil
	}
	if err := c.teller.RemoveClient(ctx, id, cascade); err != nil {
		c.report(err)
		return nil
	}
	if cascade {
		c.message(levelSuccess, "All of the client's accounts were deleted.")
	}
	c.message(levelSuccess, "Client deleted successfully.")
	return nil
}

func (c *Console) listAccounts(ctx context.Context) error {
	accounts := c.teller.Accounts(ctx)
	if len(accounts) == 0 {
		c.message(levelWarning, "No accounts registered.")
		return nil
	}
	fmt.Fprintf(c.out, "\n\t%s\n\t%s\n\t%s\n", strings.Repeat("═", 50), centered("REGISTERED ACCOUNTS", 50), strings.Repeat("═", 50))
	for i, a := range accounts {
		c.printAccount(i+1, a)
	}
	return nil
}

func (c *Console) listClients(ctx context.Context) error {
	clients := c.teller.Clients(ctx)
	if len(clients) == 0 {
		c.message(levelWarning, "No clients registered.")
		return nil
	}
	for _, v := range clients {
		c.rule("═", 50)
		fmt.Fprintf(c.out, "\t %s (%s) - %s\n", v.Name, v.ID, v.Kind)
		fmt.Fprintf(c.out, "\t Address: %s\n", v.Address)
	}
	c.rule("═", 50)
	return nil
}
