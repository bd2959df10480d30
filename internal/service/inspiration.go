package service

import (
	"context"
	"errors"
	"io"

	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/media"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
)

const inspirationDir = "inspiracion"

type InspirationService struct {
	Repo  *repo.GormRepo
	Media *media.Store
}

func (s *InspirationService) List(ctx context.Context) ([]models.Inspiration, error) {
	return s.Repo.ListInspiration(ctx)
}

func (s *InspirationService) Upload(ctx context.Context, filename string, r io.Reader) (*models.Inspiration, error) {
	p, err := s.Media.Save(inspirationDir, filename, r)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedType) {
			return nil, invalid("Formato de imagen no soportado.")
		}
		return nil, err
	}
	img := &models.Inspiration{ImagePath: p}
	if err := s.Repo.CreateInspiration(ctx, img); err != nil {
		_ = s.Media.Remove(p)
		return nil, err
	}
	return img, nil
}

func (s *InspirationService) Delete(ctx context.Context, id uint) error {
	img, err := s.Repo.GetInspiration(ctx, id)
	if err != nil {
		return notFound(err, "inspiration")
	}
	if err := s.Repo.DeleteInspiration(ctx, id); err != nil {
		return notFound(err, "inspiration")
	}
	if err := s.Media.Remove(img.ImagePath); err != nil {
		logging.FromContext(ctx).Warn("media_remove_error", "path", img.ImagePath, "error", err)
	}
	return nil
}
