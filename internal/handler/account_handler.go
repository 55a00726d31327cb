package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Stewz00/go-account-service/internal/metrics"
	"github.com/Stewz00/go-account-service/internal/service"
)

// Operation names used in metrics.
const (
	opRegister       = "register"
	opLogin          = "login"
	opExists         = "exists"
	opUpdatePassword = "update_password"
)

type AccountHandler struct {
	accountService *service.AccountService
	metrics        *metrics.Metrics
	validate       *validator.Validate
	detailedErrors bool
}

// NewAccountHandler wires the HTTP surface. With detailedErrors false every
// failure on an endpoint looks the same to the client.
func NewAccountHandler(accountService *service.AccountService, m *metrics.Metrics, detailedErrors bool) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		metrics:        m,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		detailedErrors: detailedErrors,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ExistsRequest struct {
	Email string `validate:"required"`
}

type AccountResponse struct {
	Success bool   `json:"success"`
	Exists  *bool  `json:"exists,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Register handles account registration
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, opRegister, &req, http.StatusBadRequest) {
		return
	}

	err := h.accountService.Register(r.Context(), req.Email, req.Password)
	h.observe(opRegister, err)
	if err != nil {
		h.sendFailure(w, err, http.StatusBadRequest)
		return
	}

	sendJSON(w, http.StatusCreated, AccountResponse{Success: true})
}

// Login checks the supplied credentials
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decode(w, r, opLogin, &req, http.StatusUnauthorized) {
		return
	}

	err := h.accountService.Login(r.Context(), req.Email, req.Password)
	h.observe(opLogin, err)
	if err != nil {
		h.sendFailure(w, err, http.StatusUnauthorized)
		return
	}

	sendJSON(w, http.StatusOK, AccountResponse{Success: true})
}

// Exists reports whether an account is registered for the email query parameter.
// Store failures read as "does not exist" unless detailed errors are enabled.
func (h *AccountHandler) Exists(w http.ResponseWriter, r *http.Request) {
	req := ExistsRequest{Email: r.URL.Query().Get("email")}
	if err := h.validate.Struct(req); err != nil {
		h.observe(opExists, service.ErrInvalidInput)
		h.sendFailure(w, service.ErrInvalidInput, http.StatusBadRequest)
		return
	}

	exists, err := h.accountService.AccountExists(r.Context(), req.Email)
	h.observe(opExists, err)
	if err != nil && h.detailedErrors {
		h.sendFailure(w, err, http.StatusOK)
		return
	}

	exists = exists && err == nil
	sendJSON(w, http.StatusOK, AccountResponse{Success: exists, Exists: &exists})
}

// UpdatePassword replaces the stored password for an account
func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decode(w, r, opUpdatePassword, &req, http.StatusBadRequest) {
		return
	}

	err := h.accountService.UpdatePassword(r.Context(), req.Email, req.Password)
	h.observe(opUpdatePassword, err)
	if err != nil {
		h.sendFailure(w, err, http.StatusBadRequest)
		return
	}

	sendJSON(w, http.StatusOK, AccountResponse{Success: true})
}

func (h *AccountHandler) decode(w http.ResponseWriter, r *http.Request, op string, dst any, collapsed int) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.observe(op, service.ErrInvalidInput)
		h.sendFailure(w, service.ErrInvalidInput, collapsed)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.observe(op, service.ErrInvalidInput)
		h.sendFailure(w, service.ErrInvalidInput, collapsed)
		return false
	}
	return true
}

func (h *AccountHandler) observe(op string, err error) {
	if h.metrics != nil {
		h.metrics.ObserveOperation(op, service.KindOf(err).String())
	}
}

// sendFailure writes a failed response. Collapsed mode uses the endpoint's
// single failure status and omits the error kind.
func (h *AccountHandler) sendFailure(w http.ResponseWriter, err error, collapsed int) {
	if !h.detailedErrors {
		sendJSON(w, collapsed, AccountResponse{Success: false})
		return
	}

	kind := service.KindOf(err)
	sendJSON(w, statusFor(kind), AccountResponse{Success: false, Error: kind.String()})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindInvalidInput:
		return http.StatusBadRequest
	case service.KindDuplicate:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindMismatch:
		return http.StatusUnauthorized
	default:
		return http.StatusServiceUnavailable
	}
}

// Helper function to send JSON responses
func sendJSON(w http.ResponseWriter, code int, body AccountResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
