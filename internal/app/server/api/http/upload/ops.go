package upload

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) uploadOp() huma.Operation {
	return huma.Operation{
		OperationID:  "upload",
		Method:       http.MethodPost,
		Path:         "/api/upload",
		Summary:      "Загрузить фото и привязать к показанию",
		Tags:         []string{"upload"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: h.maxBytes,
		Middlewares:  h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "upload-files",
		Method:      http.MethodGet,
		Path:        "/api/upload/files",
		Summary:     "Файлы, привязанные к записи",
		Tags:        []string{"upload"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
