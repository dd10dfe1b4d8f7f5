package bank

import (
	"fmt"
	"strings"
	"time"
)

// ClientKind distinguishes individuals from organizations.
type ClientKind string

const (
	KindIndividual   ClientKind = "individual"
	KindOrganization ClientKind = "organization"
)

// Address is supplied by the caller, usually from a postal code lookup.
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// String formats the address on one line.
func (a Address) String() string {
	var parts []string
	for _, p := range []string{a.Street, a.Number, a.District} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, ", ")
	if a.City != "" || a.State != "" {
		line += " - " + strings.Trim(a.City+"/"+a.State, "/")
	}
	if a.PostalCode != "" {
		line += " - " + a.PostalCode
	}
	return strings.TrimPrefix(line, " - ")
}

// Client is either an *Individual or an *Organization.
type Client interface {
	ID() string
	Name() string
	Kind() ClientKind
	Address() Address
	Accounts() []Account
	HasAccounts() bool

	base() *profile
}

// profile is the state shared by every client variant.
type profile struct {
	id       string
	address  Address
	accounts []Account
}

func (p *profile) ID() string        { return p.id }
func (p *profile) Address() Address  { return p.address }
func (p *profile) HasAccounts() bool { return len(p.accounts) > 0 }
func (p *profile) base() *profile    { return p }
func (p *profile) attach(a Account)  { p.accounts = append(p.accounts, a) }

func (p *profile) Accounts() []Account {
	out := make([]Account, len(p.accounts))
	copy(out, p.accounts)
	return out
}

func (p *profile) detach(number string) bool {
	for i, a := range p.accounts {
		if a.Number() == number {
			p.accounts = append(p.accounts[:i], p.accounts[i+1:]...)
			return true
		}
	}
	return false
}

// Individual is a natural person identified by a tax number.
type Individual struct {
	profile
	fullName  string
	birthDate time.Time
}

// NewIndividual builds an individual client. The tax identifier is not checksum-validated.
func NewIndividual(taxID, fullName string, birthDate time.Time, address Address) (*Individual, error) {
	taxID, fullName = strings.TrimSpace(taxID), strings.TrimSpace(fullName)
	if taxID == "" || fullName == "" {
		return nil, fmt.Errorf("%w: tax id and full name are required", ErrInvalidClient)
	}
	return &Individual{
		profile:   profile{id: taxID, address: address},
		fullName:  fullName,
		birthDate: birthDate,
	}, nil
}

func (c *Individual) Name() string         { return c.fullName }
func (c *Individual) Kind() ClientKind     { return KindIndividual }
func (c *Individual) BirthDate() time.Time { return c.birthDate }

// Organization is a legal entity identified by its registration number.
type Organization struct {
	profile
	legalName string
}

// NewOrganization builds an organization client.
func NewOrganization(registrationID, legalName string, address Address) (*Organization, error) {
	registrationID, legalName = strings.TrimSpace(registrationID), strings.TrimSpace(legalName)
	if registrationID == "" || legalName == "" {
		return nil, fmt.Errorf("%w: registration id and legal name are required", ErrInvalidClient)
	}
	return &Organization{
		profile:   profile{id: registrationID, address: address},
		legalName: legalName,
	}, nil
}

func (c *Organization) Name() string     { return c.legalName }
func (c *Organization) Kind() ClientKind { return KindOrganization }

// ClientUpdate carries the editable client fields. Zero values keep the current data.
type ClientUpdate struct {
	Name      string
	BirthDate time.Time
	Address   *Address
}

func applyUpdate(c Client, u ClientUpdate) {
	name := strings.TrimSpace(u.Name)
	switch v := c.(type) {
	case *Individual:
		if name != "" {
			v.fullName = name
		}
		if !u.BirthDate.IsZero() {
			v.birthDate = u.BirthDate
		}
	case *Organization:
		if name != "" {
			v.legalName = name
		}
	}
	if u.Address != nil {
		c.base().address = *u.Address
	}
}
