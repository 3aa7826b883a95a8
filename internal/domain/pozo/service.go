package pozo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context) ([]Pozo, error)
	Create(ctx context.Context, nombre, bateria string) (Pozo, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(slog.String("component", "pozo_service")),
	}
}

// List возвращает справочник скважин, упорядоченный по имени
func (s *Service) List(ctx context.Context) ([]Pozo, error) {
	pozos, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list pozos", "error", err)
		return nil, fmt.Errorf("список скважин: %w", err)
	}
	return pozos, nil
}

func (s *Service) Create(ctx context.Context, nombre, bateria string) (Pozo, error) {
	p := Pozo{
		Nombre:  strings.TrimSpace(nombre),
		Bateria: strings.TrimSpace(bateria),
	}
	if p.Nombre == "" {
		return Pozo{}, fmt.Errorf("%w: пустое имя", ErrInvalidData)
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return Pozo{}, err
		}
		return Pozo{}, fmt.Errorf("сохранение скважины: %w", err)
	}

	p.ID = id
	s.log.Info("pozo created", "id", id, "nombre", p.Nombre)
	return p, nil
}
