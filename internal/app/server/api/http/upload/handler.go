package upload

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"lecturapozos/internal/domain/upload"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    upload.Servicer
	maxBytes   int64
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service upload.Servicer, maxBytes int64, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		maxBytes:   maxBytes,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.uploadOp(), h.upload)
	huma.Register(api, h.listOp(), h.list)
}

// upload принимает multipart с полями files, ref, refId, field
func (h *Handler) upload(ctx context.Context, input *uploadInput) (*filesOutput, error) {
	form := input.RawBody

	ref := formValue(form, "ref")
	field := formValue(form, "field")
	refID, err := strconv.Atoi(formValue(form, "refId"))
	if err != nil {
		return nil, huma.Error400BadRequest("refId должен быть числом")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return nil, huma.Error400BadRequest("нет файлов в поле files")
	}

	out := &filesOutput{Body: make([]FileResponse, 0, len(files))}
	for _, fh := range files {
		f, err := h.save(ctx, fh, ref, refID, field)
		if err != nil {
			return nil, mapError(err)
		}
		out.Body = append(out.Body, toResponse(f))
	}

	return out, nil
}

func (h *Handler) save(ctx context.Context, fh *multipart.FileHeader, ref string, refID int, field string) (upload.File, error) {
	src, err := fh.Open()
	if err != nil {
		return upload.File{}, fmt.Errorf("открытие части %q: %w", fh.Filename, err)
	}
	defer src.Close()

	return h.service.Upload(ctx, upload.Input{
		Ref:   ref,
		RefID: refID,
		Field: field,
		Name:  fh.Filename,
		Body:  src,
	})
}

func (h *Handler) list(ctx context.Context, input *listInput) (*filesOutput, error) {
	files, err := h.service.ListByRef(ctx, input.Ref, input.RefID)
	if err != nil {
		h.log.Error("list uploads failed", "error", err)
		return nil, huma.Error500InternalServerError("Internal Server Error")
	}

	out := &filesOutput{Body: make([]FileResponse, 0, len(files))}
	for _, f := range files {
		out.Body = append(out.Body, toResponse(f))
	}
	return out, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, upload.ErrInvalidTarget), errors.Is(err, upload.ErrEmptyFile):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, upload.ErrRefNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, upload.ErrUnsupportedMedia):
		return huma.NewError(http.StatusUnsupportedMediaType, err.Error())
	default:
		return huma.Error500InternalServerError("Internal Server Error")
	}
}

func formValue(form multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
