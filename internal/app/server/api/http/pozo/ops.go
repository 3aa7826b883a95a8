package pozo

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "pozos-list",
		Method:      http.MethodGet,
		Path:        "/api/pozos",
		Summary:     "Справочник скважин",
		Tags:        []string{"pozos"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "pozos-create",
		Method:      http.MethodPost,
		Path:        "/api/pozos",
		Summary:     "Добавить скважину",
		Tags:        []string{"pozos"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
