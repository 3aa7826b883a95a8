package upload

import (
	"io"
	"time"
)

const (
	RefLecturaPozo = "api::lectura-pozo.lectura-pozo"

	FieldFotoVolumetrico = "foto_volumetrico"
	FieldFotoElectrico   = "foto_electrico"
)

// File - загруженный файл, привязанный к записи (ref, refId, field)
type File struct {
	ID        int
	Name      string
	StoredAs  string
	Mime      string
	Size      int64
	URL       string
	Ref       string
	RefID     int
	Field     string
	CreatedAt time.Time
}

// Input - один файл из multipart запроса
type Input struct {
	Ref   string
	RefID int
	Field string
	Name  string
	Body  io.Reader
}
