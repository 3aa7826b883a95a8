package user

import (
	"github.com/danielgtaylor/huma/v2"
	"net/http"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-local-register",
		Method:      http.MethodPost,
		Path:        "/api/auth/local/register",
		Summary:     "Регистрация пользователя",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-local",
		Method:      http.MethodPost,
		Path:        "/api/auth/local",
		Summary:     "Авторизация пользователя",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}
