package client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// QueueLecturas - логическая очередь показаний, ожидающих отправки
	QueueLecturas = "lecturas"

	FieldFotoVolumetrico = "foto_volumetrico"
	FieldFotoElectrico   = "foto_electrico"

	// RefLecturaPozo - тип коллекции, к которой привязываются загруженные фото
	RefLecturaPozo = "api::lectura-pozo.lectura-pozo"

	EstadoCapturada = "capturada"
)

var (
	ErrInvalidReading = errors.New("некорректное показание")
	ErrDuplicateID    = errors.New("запись с таким id уже есть в очереди")
)

// Payload - данные показания, отправляемые на сервер как есть
type Payload struct {
	Pozo               string    `json:"pozo"`
	LecturaVolumetrica string    `json:"lectura_volumetrica"`
	LecturaElectrica   string    `json:"lectura_electrica"`
	Gasto              string    `json:"gasto,omitempty"`
	Observaciones      string    `json:"observaciones,omitempty"`
	FechaCaptura       time.Time `json:"fecha_captura"`
	Capturador         int       `json:"capturador"`
	Estado             string    `json:"estado"`
}

// Attachment - ссылка на локальный файл фотографии счетчика
type Attachment struct {
	Field    string `json:"field"`
	MediaRef string `json:"media_ref"`
}

// QueuedReading - единица работы, ожидающая подтверждения сервером.
// Payload не меняется после создания: запись можно только удалить.
type QueuedReading struct {
	ID          string       `json:"id"`
	Payload     Payload      `json:"payload"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewQueuedReading создает запись очереди с временным идентификатором (UUIDv7)
func NewQueuedReading(payload Payload, attachments []Attachment, now time.Time) (*QueuedReading, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации id: %w", err)
	}

	item := &QueuedReading{
		ID:          id.String(),
		Payload:     payload,
		Attachments: append([]Attachment(nil), attachments...),
		CreatedAt:   now,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate проверяет инварианты записи
func (q *QueuedReading) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("%w: пустой id", ErrInvalidReading)
	}
	if strings.TrimSpace(q.Payload.Pozo) == "" {
		return fmt.Errorf("%w: не выбран pozo", ErrInvalidReading)
	}
	if len(q.Attachments) > 2 {
		return fmt.Errorf("%w: не более двух фотографий", ErrInvalidReading)
	}

	seen := make(map[string]bool, len(q.Attachments))
	for _, a := range q.Attachments {
		if a.Field != FieldFotoVolumetrico && a.Field != FieldFotoElectrico {
			return fmt.Errorf("%w: неизвестное поле фото %q", ErrInvalidReading, a.Field)
		}
		if seen[a.Field] {
			return fmt.Errorf("%w: поле %q указано дважды", ErrInvalidReading, a.Field)
		}
		if strings.TrimSpace(a.MediaRef) == "" {
			return fmt.Errorf("%w: пустой путь к фото %q", ErrInvalidReading, a.Field)
		}
		seen[a.Field] = true
	}

	return nil
}

// SyncOutcome - результат обработки одной записи за проход синхронизации
type SyncOutcome string

const (
	OutcomeAccepted         SyncOutcome = "accepted"
	OutcomeDuplicate        SyncOutcome = "duplicate"
	OutcomeTransientFailure SyncOutcome = "transient_failure"
)

// ItemResult - итог по одной записи очереди
type ItemResult struct {
	ID            string      `json:"id"`
	Pozo          string      `json:"pozo"`
	Outcome       SyncOutcome `json:"outcome"`
	ServerID      int         `json:"server_id,omitempty"`
	FailedUploads []string    `json:"failed_uploads,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// Pozo - скважина из справочника сервера
type Pozo struct {
	ID      int    `json:"id"`
	Nombre  string `json:"nombre"`
	Bateria string `json:"bateria"`
}

// User - пользователь из сессии
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Lectura - показание, уже принятое сервером
type Lectura struct {
	ID int `json:"id"`
	Payload
	CreatedAt time.Time `json:"createdAt"`
}

// CaptureRequest - данные формы захвата показания
type CaptureRequest struct {
	Pozo               string
	LecturaVolumetrica string
	LecturaElectrica   string
	Gasto              string
	Observaciones      string
	FotoVolumetrico    string
	FotoElectrico      string
}
