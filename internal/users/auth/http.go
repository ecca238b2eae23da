// Copyright (c) 2026 Souqly. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/souqly/backend/internal/platform/middleware"
	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/respond"
	"github.com/souqly/backend/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the credential-flow HTTP endpoints.
type Handler struct {
	service *Service
	guard   *middleware.Guard
}

// NewHandler constructs a new [Handler] with its service dependency and the
// gate bundle protecting the in-session endpoints.
func NewHandler(service *Service, guard *middleware.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns a [chi.Router] configured with the credential endpoints.
//
// # Endpoints
//   - POST /signup            : Creates an account and opens a session.
//   - POST /login             : Authenticates and returns a session token.
//   - POST /forgot-password   : Mails a recovery code, returns a reset token.
//   - POST /verify-reset-code : Redeems the code (bearer: reset token).
//   - POST /reset-password    : Overwrites the password (bearer: reset token).
//   - POST /logout            : Revokes the session (protected).
//   - PATCH /change-password  : Rotates the password (protected).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public flow. The recovery endpoints authenticate with the
	// reset-scoped token carried in the Authorization header, which the
	// service verifies itself; the session gates stay out of their way.
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/verify-reset-code", handler.verifyResetCode)
	router.Post("/reset-password", handler.resetPassword)

	// In-session flow
	router.Group(func(protected chi.Router) {
		for _, gate := range handler.guard.Protect() {
			protected.Use(gate)
		}
		protected.Post("/logout", handler.logout)
		protected.Patch("/change-password", handler.changePassword)
	})

	return router
}

// # Request & Response Payloads

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type verifyResetCodeRequest struct {
	ResetCode string `json:"resetCode"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// sessionResponse pairs the account document with its session token.
type sessionResponse struct {
	Data  *Identity `json:"data"`
	Token string    `json:"token"`
}

// resetResponse acknowledges the recovery mail and hands over the
// flow-binding token.
type resetResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

// tokenResponse carries a fresh session token after a credential rotation.
type tokenResponse struct {
	Token string `json:"token"`
}

// # Endpoint Implementations

/*
signup handles the creation of a new customer account.

POST /api/v1/auth/signup

Response:
  - 201: sessionResponse: Created account and its first session token
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 100).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLen).
		Match(FieldPasswordConfirm, input.Password, input.PasswordConfirm)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, token, err := handler.service.Signup(request.Context(), SignupInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusCreated, sessionResponse{Data: identity, Token: token})
}

/*
login authenticates an existing customer.

POST /api/v1/auth/login

Response:
  - 200: sessionResponse: Account and a fresh session token
  - 401: Incorrect email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, token, err := handler.service.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, sessionResponse{Data: identity, Token: token})
}

/*
forgotPassword starts the recovery flow.

POST /api/v1/auth/forgot-password

Response:
  - 200: resetResponse: Acknowledgement plus the reset token
  - 400: Mail delivery failure
  - 404: Unknown email
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	resetToken, err := handler.service.ForgotPassword(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, resetResponse{
		Status:     "Success",
		Message:    "Reset code sent to email",
		ResetToken: resetToken,
	})
}

/*
verifyResetCode redeems the emailed recovery code.

POST /api/v1/auth/verify-reset-code
Authorization: Bearer <reset token>

Response:
  - 204: Code accepted
  - 400: Wrong or expired code
  - 401: Invalid reset token
*/
func (handler *Handler) verifyResetCode(writer http.ResponseWriter, request *http.Request) {
	var input verifyResetCodeRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldResetCode, input.ResetCode)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.service.VerifyResetCode(request.Context(), requestutil.BearerToken(request), input.ResetCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
resetPassword completes the recovery flow.

POST /api/v1/auth/reset-password
Authorization: Bearer <reset token>

Response:
  - 200: tokenResponse: Fresh session token
  - 401: Invalid reset token or unverified code
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, PasswordMinLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.service.ResetPassword(request.Context(), requestutil.BearerToken(request), input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, tokenResponse{Token: token})
}

/*
logout revokes the current session token.

POST /api/v1/auth/logout

Response:
  - 204: Session revoked (idempotent)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Logout(request.Context(), requestutil.BearerToken(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
changePassword rotates the password of the authenticated customer.

PATCH /api/v1/auth/change-password

Response:
  - 200: tokenResponse: The only session token that survives the rotation
  - 401: Current password is incorrect
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, PasswordMinLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.service.ChangePassword(request.Context(), user.ID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, tokenResponse{Token: token})
}
