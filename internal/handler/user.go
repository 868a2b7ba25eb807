package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/sif/internal/domain"
)

// UserHandler serves registration and login.
type UserHandler struct {
	users    domain.UserService
	validate *validator.Validate
}

func NewUserHandler(users domain.UserService) *UserHandler {
	return &UserHandler{
		users:    users,
		validate: validator.New(),
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accountJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenJSON struct {
	Token string `json:"token"`
}

// Register handles POST /api/auth/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handler.user.Register"

	var req registerRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.validateRequest(op, req); err != nil {
		RespondError(w, r, err)
		return
	}

	account, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	Respond(w, http.StatusCreated, "User registered successfully.", accountJSON{
		ID:    strconv.FormatInt(account.ID, 10),
		Email: account.Email,
	})
}

// Login handles POST /api/auth/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handler.user.Login"

	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.validateRequest(op, req); err != nil {
		RespondError(w, r, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(w, r, err)
		return
	}

	RespondOK(w, "Login successful.", tokenJSON{Token: token})
}

func (h *UserHandler) validateRequest(op string, req any) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Email":
			return domain.Invalid(op, "A valid email address is required.")
		case "Password":
			if verrs[0].Tag() == "min" {
				return domain.Invalid(op, "Password must be at least 8 characters.")
			}
			return domain.Invalid(op, "Password is required.")
		}
	}

	return domain.Invalid(op, "Invalid request payload.")
}
