// Package address resolves postal codes to street addresses. The bank core never
// calls it directly; registration workflows use it to build the Address handed to
// the core, falling back to manual entry on ErrAddressNotFound.
package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"github.com/dpaula-bank/bank/internal/bank"
)

// ErrAddressNotFound is returned when the postal code is malformed or unknown to the provider.
var ErrAddressNotFound = errors.New("address not found")

// Lookup resolves a postal code. Implementations leave Address.Number empty.
type Lookup interface {
	Lookup(ctx context.Context, postalCode string) (bank.Address, error)
}

// Normalize strips punctuation from a postal code and checks it has eight digits.
func Normalize(postalCode string) (string, error) {
	var b strings.Builder
	for _, r := range postalCode {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '.' || unicode.IsSpace(r):
		default:
			return "", fmt.Errorf("%w: malformed postal code %q", ErrAddressNotFound, postalCode)
		}
	}
	if b.Len() != 8 {
		return "", fmt.Errorf("%w: postal code must have 8 digits", ErrAddressNotFound)
	}
	return b.String(), nil
}

// Format renders eight digits as NNNNN-NNN.
func Format(digits string) string {
	if len(digits) != 8 {
		return digits
	}
	return digits[:5] + "-" + digits[5:]
}

// ViaCEP queries a ViaCEP-compatible service (GET {baseURL}/{cep}/json/).
type ViaCEP struct {
	baseURL string
	timeout time.Duration
}

// NewViaCEP builds a client for baseURL, e.g. https://viacep.com.br/ws.
func NewViaCEP(baseURL string, timeout time.Duration) *ViaCEP {
	return &ViaCEP{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

type viaCEPResponse struct {
	CEP        string          `json:"cep"`
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"`
}

// Lookup fetches the address for postalCode.
func (v *ViaCEP) Lookup(ctx context.Context, postalCode string) (bank.Address, error) {
	digits, err := Normalize(postalCode)
	if err != nil {
		return bank.Address{}, err
	}

	if err := ctx.Err(); err != nil {
		return bank.Address{}, err
	}

	timeout := v.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout || timeout <= 0 {
			timeout = remaining
		}
	}

	agent := fiber.Get(fmt.Sprintf("%s/%s/json/", v.baseURL, digits))
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return bank.Address{}, fmt.Errorf("address lookup: %w", errors.Join(errs...))
	}
	switch {
	case status == fiber.StatusBadRequest || status == fiber.StatusNotFound:
		return bank.Address{}, fmt.Errorf("%w: %s", ErrAddressNotFound, Format(digits))
	case status != fiber.StatusOK:
		return bank.Address{}, fmt.Errorf("address lookup: unexpected status %d", status)
	}

	var res viaCEPResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return bank.Address{}, fmt.Errorf("address lookup: decode: %w", err)
	}
	if flagged(res.Erro) || res.Localidade == "" {
		return bank.Address{}, fmt.Errorf("%w: %s", ErrAddressNotFound, Format(digits))
	}

	cep := res.CEP
	if cep == "" {
		cep = Format(digits)
	}
	return bank.Address{
		Street:     res.Logradouro,
		District:   res.Bairro,
		City:       res.Localidade,
		State:      res.UF,
		PostalCode: cep,
	}, nil
}

// flagged reads ViaCEP's "erro" field, which is sent either as true or as "true".
func flagged(raw json.RawMessage) bool {
	s := strings.Trim(string(raw), `" `)
	return s == "true"
}
