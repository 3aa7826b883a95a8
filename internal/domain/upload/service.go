package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// sniffLen - сколько байт читается для определения типа файла
const sniffLen = 3072

type Servicer interface {
	Upload(ctx context.Context, in Input) (File, error)
	ListByRef(ctx context.Context, ref string, refID int) ([]File, error)
}

type Service struct {
	repo      Repository
	blobs     BlobStore
	refs      RefChecker
	publicURL string
	log       *slog.Logger
}

// NewService создает сервис загрузок. publicURL - префикс, под которым раздаются файлы.
func NewService(repo Repository, blobs BlobStore, refs RefChecker, publicURL string, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		blobs:     blobs,
		refs:      refs,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log.With(slog.String("component", "upload_service")),
	}
}

func (s *Service) Upload(ctx context.Context, in Input) (File, error) {
	if err := s.checkTarget(ctx, in); err != nil {
		return File{}, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return File{}, fmt.Errorf("чтение файла: %w", err)
	}
	if n == 0 {
		return File{}, ErrEmptyFile
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return File{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, mtype.String())
	}

	storedAs := uuid.NewString() + mtype.Extension()
	size, err := s.blobs.Save(storedAs, io.MultiReader(bytes.NewReader(head), in.Body))
	if err != nil {
		return File{}, fmt.Errorf("сохранение файла: %w", err)
	}

	f := File{
		Name:     filepath.Base(in.Name),
		StoredAs: storedAs,
		Mime:     mtype.String(),
		Size:     size,
		URL:      s.publicURL + "/" + storedAs,
		Ref:      in.Ref,
		RefID:    in.RefID,
		Field:    in.Field,
	}

	id, err := s.repo.Create(ctx, f)
	if err != nil {
		if rmErr := s.blobs.Remove(storedAs); rmErr != nil {
			s.log.Warn("failed to remove orphan blob", "name", storedAs, "error", rmErr)
		}
		return File{}, fmt.Errorf("запись о файле: %w", err)
	}
	f.ID = id

	s.log.Info("file uploaded", "id", id, "ref_id", in.RefID, "field", in.Field, "mime", f.Mime, "size", size)
	return f, nil
}

func (s *Service) ListByRef(ctx context.Context, ref string, refID int) ([]File, error) {
	return s.repo.ListByRef(ctx, ref, refID)
}

func (s *Service) checkTarget(ctx context.Context, in Input) error {
	if in.Ref != RefLecturaPozo {
		return fmt.Errorf("%w: ref %q", ErrInvalidTarget, in.Ref)
	}
	if in.Field != FieldFotoVolumetrico && in.Field != FieldFotoElectrico {
		return fmt.Errorf("%w: field %q", ErrInvalidTarget, in.Field)
	}

	ok, err := s.refs.Exists(ctx, in.RefID)
	if err != nil {
		return fmt.Errorf("проверка записи: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrRefNotFound, in.RefID)
	}
	return nil
}
