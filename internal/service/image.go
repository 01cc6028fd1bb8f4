package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

var imageExtensions = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true}

// ImageService keeps product pictures on disk and their metadata in the
// repository. On upload the file is placed before the metadata is written;
// on delete the metadata goes first, so a failure never leaves a row that
// points at a missing file.
type ImageService interface {
	Upload(ctx context.Context, productID, originalName string, main bool, content io.Reader) (model.Image, error)
	Delete(ctx context.Context, productID, filename, extension string) error
}

type imageService struct {
	images   repository.ImageRepository
	products repository.ProductRepository
	dir      string
	log      zerolog.Logger
}

func NewImageService(images repository.ImageRepository, products repository.ProductRepository, dir string, log zerolog.Logger) ImageService {
	return &imageService{images: images, products: products, dir: dir, log: log}
}

func (s *imageService) Upload(ctx context.Context, productID, originalName string, main bool, content io.Reader) (model.Image, error) {
	if err := required("product_id", productID, "image", originalName); err != nil {
		return model.Image{}, err
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	if !imageExtensions[ext] {
		return model.Image{}, apperror.Standard("unsupported image type", map[string]any{"extension": ext})
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return model.Image{}, mapRepoErr(err, "product", map[string]any{"id": productID})
	}

	img := model.Image{
		FlagMain:  main,
		Filename:  productID + "_" + uuid.NewString(),
		Extension: ext,
	}
	path := s.path(img.Filename, img.Extension)
	if err := writeFile(path, content); err != nil {
		return model.Image{}, apperror.Internal("could not store image", err, map[string]any{"path": path})
	}

	id, ok, err := s.images.Add(ctx, productID, img)
	if err != nil || !ok {
		_ = os.Remove(path)
		if err == nil {
			err = repository.ErrNotFound
		}
		return model.Image{}, mapRepoErr(err, "product", map[string]any{"id": productID})
	}
	img.ID = id
	return img, nil
}

func (s *imageService) Delete(ctx context.Context, productID, filename, extension string) error {
	if err := required("id", productID, "filename", filename, "extension", extension); err != nil {
		return err
	}
	// filename and extension come from the client and must stay inside dir
	if strings.ContainsAny(filename+extension, `/\`) || strings.Contains(filename+extension, "..") {
		return apperror.Standard("invalid filename", map[string]any{"filename": filename})
	}

	ok, err := s.images.Remove(ctx, productID, filename)
	if err != nil {
		return mapRepoErr(err, "image", map[string]any{"id": productID, "filename": filename})
	}
	if !ok {
		return apperror.NotFound("image not found", map[string]any{"id": productID, "filename": filename})
	}

	path := s.path(filename, extension)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// the metadata is already gone; the file is only an orphan on disk now
		s.log.Warn().Err(err).Str("path", path).Str("product_id", productID).Msg("image: orphan file left behind")
	}
	return nil
}

func (s *imageService) path(filename, ext string) string {
	return filepath.Join(s.dir, filename+"."+ext)
}

func writeFile(path string, content io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("copy image: %w", err)
	}
	return f.Close()
}
