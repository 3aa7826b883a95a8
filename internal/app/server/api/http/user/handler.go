package user

import (
	"context"
	"errors"
	"lecturapozos/internal/domain/session"
	"lecturapozos/internal/domain/user"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const invalidCredentials = "Invalid identifier or password"

type Handler struct {
	service    user.Servicer
	session    session.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service user.Servicer, session session.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		session:    session,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*authOutput, error) {
	u, err := h.service.Register(ctx, input.Body.Username, input.Body.Email, input.Body.Password)
	switch {
	case errors.Is(err, user.ErrInvalidInput):
		return nil, huma.Error400BadRequest(err.Error())
	case errors.Is(err, user.ErrAlreadyExists):
		return nil, huma.Error400BadRequest("Email or Username are already taken")
	case err != nil:
		h.log.Error("register failed", "error", err)
		return nil, huma.Error500InternalServerError("Internal Server Error")
	}

	return h.startSession(ctx, u)
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*authOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Identifier, input.Body.Password)
	if errors.Is(err, user.ErrInvalidAuth) {
		return nil, huma.Error400BadRequest(invalidCredentials)
	}
	if err != nil {
		h.log.Error("authenticate failed", "error", err)
		return nil, huma.Error500InternalServerError("Internal Server Error")
	}

	return h.startSession(ctx, u)
}

func (h *Handler) startSession(ctx context.Context, u user.User) (*authOutput, error) {
	token, err := h.session.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("create session failed", "user_id", u.ID, "error", err)
		return nil, huma.Error500InternalServerError("Internal Server Error")
	}

	return &authOutput{
		Body: AuthResponse{
			JWT: token,
			User: UserResponse{
				ID:       u.ID,
				Username: u.Username,
				Email:    u.Email,
			},
		},
	}, nil
}
