package pozo

import (
	"context"
	"errors"
	"lecturapozos/internal/domain/pozo"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    pozo.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service pozo.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	pozos, err := h.service.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Internal Server Error")
	}

	out := &listOutput{}
	out.Body.Data = make([]PozoItem, 0, len(pozos))
	for _, p := range pozos {
		out.Body.Data = append(out.Body.Data, toItem(p))
	}
	out.Body.Meta.Pagination.Total = len(pozos)

	return out, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	p, err := h.service.Create(ctx, input.Body.Data.Nombre, input.Body.Data.Bateria)
	switch {
	case errors.Is(err, pozo.ErrInvalidData):
		return nil, huma.Error400BadRequest(err.Error())
	case errors.Is(err, pozo.ErrAlreadyExists):
		return nil, huma.Error409Conflict(err.Error())
	case err != nil:
		h.log.Error("create pozo failed", "error", err)
		return nil, huma.Error500InternalServerError("Internal Server Error")
	}

	out := &createOutput{}
	out.Body.Data = toItem(p)
	return out, nil
}
