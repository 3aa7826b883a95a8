package lectura

import (
	"context"
	"errors"

	"lecturapozos/internal/app/server/api/http/middleware/auth"
	"lecturapozos/internal/domain/lectura"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    lectura.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service lectura.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.listOp(), h.list)
}

// create отвечает 409, если у скважины уже есть показание за месяц захвата.
// Клиенты трактуют 409 как окончательный отказ и удаляют запись из очереди.
func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	l, err := h.service.Create(ctx, userID, input.Body.Data.toDomain())
	switch {
	case errors.Is(err, lectura.ErrDuplicate):
		return nil, huma.Error409Conflict(err.Error())
	case errors.Is(err, lectura.ErrInvalidData):
		return nil, huma.Error400BadRequest(err.Error())
	case err != nil:
		return nil, huma.Error500InternalServerError("Internal Server Error")
	}

	out := &createOutput{}
	out.Body.Data = toItem(l)
	return out, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	filter := lectura.Filter{
		Pozo:    input.Pozo,
		Periodo: input.Periodo,
		Limit:   input.Limit,
	}
	if input.Mine {
		filter.Capturador = userID
	}

	items, err := h.service.List(ctx, filter)
	if errors.Is(err, lectura.ErrInvalidData) {
		return nil, huma.Error400BadRequest(err.Error())
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Internal Server Error")
	}

	out := &listOutput{}
	out.Body.Data = make([]LecturaItem, 0, len(items))
	for _, l := range items {
		out.Body.Data = append(out.Body.Data, toItem(l))
	}
	out.Body.Meta.Pagination.Total = len(items)

	return out, nil
}
