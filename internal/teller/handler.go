package teller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dpaula-bank/bank/internal/address"
	"github.com/dpaula-bank/bank/internal/bank"
	"github.com/dpaula-bank/bank/internal/middleware"
	"github.com/dpaula-bank/bank/internal/money"
)

const birthDateLayout = "2006-01-02"

// Handler exposes the teller over HTTP.
type Handler struct {
	service *Service
	lookup  address.Lookup
}

// NewHandler builds the HTTP handler. lookup may be nil, which disables the address endpoint.
func NewHandler(service *Service, lookup address.Lookup) *Handler {
	return &Handler{service: service, lookup: lookup}
}

type addressRequest struct {
	Street     string `json:"street" validate:"required"`
	Number     string `json:"number" validate:"required"`
	District   string `json:"district"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required,len=2"`
	PostalCode string `json:"postal_code"`
}

func (r addressRequest) toAddress() bank.Address {
	return bank.Address(r)
}

type registerClientRequest struct {
	Kind      string         `json:"kind" validate:"required,oneof=individual organization"`
	ID        string         `json:"id" validate:"required,max=32"`
	Name      string         `json:"name" validate:"required,max=120"`
	BirthDate string         `json:"birth_date" validate:"required_if=Kind individual,omitempty,datetime=2006-01-02"`
	Address   addressRequest `json:"address"`
}

type updateClientRequest struct {
	Name      string          `json:"name" validate:"omitempty,max=120"`
	BirthDate string          `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Address   *addressRequest `json:"address"`
}

type openAccountRequest struct {
	Kind string `json:"kind" validate:"required,oneof=checking savings"`
}

type transactionRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// RegisterClient creates an individual or organization client.
func (h *Handler) RegisterClient(c *fiber.Ctx) error {
	var req registerClientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if errs := middleware.ValidateRequest(req); errs != nil {
		return middleware.RespondWithValidationError(c, errs)
	}

	var (
		view ClientView
		err  error
	)
	switch bank.ClientKind(req.Kind) {
	case bank.KindIndividual:
		bd, _ := time.Parse(birthDateLayout, req.BirthDate)
		view, err = h.service.RegisterIndividual(c.UserContext(), IndividualInput{
			TaxID: req.ID, FullName: req.Name, BirthDate: bd, Address: req.Address.toAddress(),
		})
	default:
		view, err = h.service.RegisterOrganization(c.UserContext(), OrganizationInput{
			RegistrationID: req.ID, LegalName: req.Name, Address: req.Address.toAddress(),
		})
	}
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(view)
}

// ListClients returns every client.
func (h *Handler) ListClients(c *fiber.Ctx) error {
	clients := h.service.Clients(c.UserContext())
	if clients == nil {
		clients = []ClientView{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"clients": clients})
}

// GetClient returns one client with its accounts.
func (h *Handler) GetClient(c *fiber.Ctx) error {
	view, err := h.service.Client(c.UserContext(), c.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// UpdateClient edits name, birth date or address.
func (h *Handler) UpdateClient(c *fiber.Ctx) error {
	var req updateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if errs := middleware.ValidateRequest(req); errs != nil {
		return middleware.RespondWithValidationError(c, errs)
	}

	u := bank.ClientUpdate{Name: req.Name}
	if req.BirthDate != "" {
		u.BirthDate, _ = time.Parse(birthDateLayout, req.BirthDate)
	}
	if req.Address != nil {
		addr := req.Address.toAddress()
		u.Address = &addr
	}
	view, err := h.service.UpdateClient(c.UserContext(), c.Params("id"), u)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// RemoveClient deletes a client. ?cascade=true also removes its accounts.
func (h *Handler) RemoveClient(c *fiber.Ctx) error {
	cascade, _ := strconv.ParseBool(c.Query("cascade"))
	if err := h.service.RemoveClient(c.UserContext(), c.Params("id"), cascade); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// OpenAccount opens a checking or savings account for the client in the path.
func (h *Handler) OpenAccount(c *fiber.Ctx) error {
	var req openAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if errs := middleware.ValidateRequest(req); errs != nil {
		return middleware.RespondWithValidationError(c, errs)
	}
	desc, err := h.service.OpenAccount(c.UserContext(), c.Params("id"), bank.AccountKind(req.Kind))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(desc)
}

// ListAccounts describes every account.
func (h *Handler) ListAccounts(c *fiber.Ctx) error {
	accounts := h.service.Accounts(c.UserContext())
	if accounts == nil {
		accounts = []bank.Description{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"accounts": accounts})
}

// GetAccount describes one account.
func (h *Handler) GetAccount(c *fiber.Ctx) error {
	desc, err := h.service.Account(c.UserContext(), c.Params("number"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(desc)
}

// CloseAccount detaches an account from its owner.
func (h *Handler) CloseAccount(c *fiber.Ctx) error {
	if err := h.service.CloseAccount(c.UserContext(), c.Params("number")); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Deposit credits the account in the path.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.transact(c, h.service.Deposit)
}

// Withdraw debits the account in the path.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.transact(c, h.service.Withdraw)
}

func (h *Handler) transact(c *fiber.Ctx, op func(ctx context.Context, number string, amount money.Amount) (Receipt, error)) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if errs := middleware.ValidateRequest(req); errs != nil {
		return middleware.RespondWithValidationError(c, errs)
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	receipt, err := op(c.UserContext(), c.Params("number"), amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

// Statement returns the account's records and balance.
func (h *Handler) Statement(c *fiber.Ctx) error {
	st, err := h.service.Statement(c.UserContext(), c.Params("number"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(st)
}

// LookupAddress resolves a postal code.
func (h *Handler) LookupAddress(c *fiber.Ctx) error {
	if h.lookup == nil {
		return fiber.NewError(http.StatusServiceUnavailable, "address lookup disabled")
	}
	addr, err := h.lookup.Lookup(c.UserContext(), c.Params("postalCode"))
	if err != nil {
		if errors.Is(err, address.ErrAddressNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}
	return c.Status(http.StatusOK).JSON(addr)
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, bank.ErrClientNotFound), errors.Is(err, bank.ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, bank.ErrDuplicateClient), errors.Is(err, bank.ErrClientHasActiveAccounts):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, bank.ErrInvalidAmount),
		errors.Is(err, bank.ErrInsufficientBalance),
		errors.Is(err, bank.ErrLimitExceeded),
		errors.Is(err, bank.ErrDailyWithdrawalCapReached),
		errors.Is(err, bank.ErrMinimumDepositNotMet),
		errors.Is(err, bank.ErrBalanceOverflow),
		errors.Is(err, bank.ErrInvalidClient),
		errors.Is(err, bank.ErrInvalidAccountKind):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
