package lectura

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

const maxListLimit = 500

type Servicer interface {
	Create(ctx context.Context, userID int, l Lectura) (Lectura, error)
	List(ctx context.Context, f Filter) ([]Lectura, error)
	Exists(ctx context.Context, id int) (bool, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		log:  log.With(slog.String("component", "lectura_service")),
	}
}

// Create принимает показание от полевого клиента.
// Capturador всегда берется из сессии, а не из тела запроса.
func (s *Service) Create(ctx context.Context, userID int, l Lectura) (Lectura, error) {
	l.Pozo = strings.TrimSpace(l.Pozo)
	l.LecturaVolumetrica = strings.TrimSpace(l.LecturaVolumetrica)
	l.LecturaElectrica = strings.TrimSpace(l.LecturaElectrica)
	l.Gasto = strings.TrimSpace(l.Gasto)

	if err := validate(l); err != nil {
		return Lectura{}, err
	}

	if l.FechaCaptura.IsZero() {
		l.FechaCaptura = s.now()
	}
	if l.Estado == "" {
		l.Estado = EstadoCapturada
	}
	l.Capturador = userID
	l.Periodo = PeriodoOf(l.FechaCaptura)

	id, err := s.repo.Create(ctx, l)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			s.log.Info("duplicate lectura rejected", "pozo", l.Pozo, "periodo", l.Periodo, "user_id", userID)
			return Lectura{}, err
		}
		s.log.Error("failed to save lectura", "pozo", l.Pozo, "error", err)
		return Lectura{}, fmt.Errorf("сохранение показания: %w", err)
	}

	l.ID = id
	s.log.Info("lectura accepted", "id", id, "pozo", l.Pozo, "periodo", l.Periodo, "user_id", userID)
	return l, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Lectura, error) {
	f.Pozo = strings.TrimSpace(f.Pozo)
	if f.Periodo != "" {
		if _, err := time.Parse(periodoLayout, f.Periodo); err != nil {
			return nil, fmt.Errorf("%w: период должен быть в формате YYYY-MM", ErrInvalidData)
		}
	}
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}

	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("список показаний: %w", err)
	}
	return items, nil
}

func (s *Service) Exists(ctx context.Context, id int) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}

func validate(l Lectura) error {
	switch {
	case l.Pozo == "":
		return fmt.Errorf("%w: не указана скважина", ErrInvalidData)
	case l.LecturaVolumetrica == "":
		return fmt.Errorf("%w: нет объемного показания", ErrInvalidData)
	case l.LecturaElectrica == "":
		return fmt.Errorf("%w: нет электрического показания", ErrInvalidData)
	}
	return nil
}
