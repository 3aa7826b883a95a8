package lectura

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "lectura-pozos-create",
		Method:      http.MethodPost,
		Path:        "/api/lectura-pozos",
		Summary:     "Принять показание скважины",
		Description: "Одно показание на скважину за календарный месяц захвата. Повтор возвращает 409.",
		Tags:        []string{"lecturas"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
		Errors:      []int{http.StatusConflict},
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "lectura-pozos-list",
		Method:      http.MethodGet,
		Path:        "/api/lectura-pozos",
		Summary:     "Список показаний",
		Tags:        []string{"lecturas"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
