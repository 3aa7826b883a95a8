package upload

import (
	"mime/multipart"
	"time"

	"lecturapozos/internal/domain/upload"
)

type uploadInput struct {
	RawBody multipart.Form
}

type FileResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Mime      string    `json:"mime"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	Field     string    `json:"field"`
	CreatedAt time.Time `json:"createdAt"`
}

type filesOutput struct {
	Body []FileResponse
}

type listInput struct {
	Ref   string `query:"ref" required:"true"`
	RefID int    `query:"refId" required:"true"`
}

func toResponse(f upload.File) FileResponse {
	return FileResponse{
		ID:        f.ID,
		Name:      f.Name,
		Mime:      f.Mime,
		Size:      f.Size,
		URL:       f.URL,
		Field:     f.Field,
		CreatedAt: f.CreatedAt,
	}
}
