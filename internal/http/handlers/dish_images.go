package handlers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/internal/media"
	"trattoria-order-service/internal/storage"
	"trattoria-order-service/pkg/response"

	"go.uber.org/zap"
)

type fileReadErrorKind string

const (
	fileReadErrMissing     fileReadErrorKind = "missing"
	fileReadErrReadFailed  fileReadErrorKind = "read_failed"
	fileReadErrTooLarge    fileReadErrorKind = "too_large"
	fileReadErrInvalidType fileReadErrorKind = "invalid_type"
)

type fileReadError struct {
	Kind    fileReadErrorKind
	Message string
}

func (e *fileReadError) status() int {
	if e.Kind == fileReadErrTooLarge {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func readImageFile(r *http.Request, field string, maxBytes int64) ([]byte, *fileReadError) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, &fileReadError{Kind: fileReadErrMissing, Message: "File is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, &fileReadError{Kind: fileReadErrReadFailed, Message: "Failed to read file"}
	}
	if int64(len(data)) > maxBytes {
		maxMB := max(maxBytes/(1024*1024), 1)
		return nil, &fileReadError{Kind: fileReadErrTooLarge, Message: fmt.Sprintf("File size must be less than %dMB.", maxMB)}
	}

	ct := strings.TrimSpace(header.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = media.DetectContentType(data)
	}
	if !media.AllowedContentType(ct) {
		return nil, &fileReadError{Kind: fileReadErrInvalidType, Message: "Invalid file type. Please upload an image file."}
	}
	return data, nil
}

func randomSuffix8() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x", b)
}

// UploadDishImage stores a resized photo and thumbnail for a dish.
func (h *Handler) UploadDishImage(w http.ResponseWriter, r *http.Request) {
	if h.Photos == nil {
		response.Error(w, http.StatusServiceUnavailable, "OBJECT_STORE_DISABLED", "Photo uploads are not configured")
		return
	}
	id, ok := readID(w, r, "id", "Dish ID")
	if !ok {
		return
	}
	ctx := r.Context()
	previous, err := h.Catalog.GetDish(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxFileSizeBytes+1<<20)
	if err := r.ParseMultipartForm(h.Config.MaxFileSizeBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid multipart form")
		return
	}
	data, ferr := readImageFile(r, "file", h.Config.MaxFileSizeBytes)
	if ferr != nil {
		response.Error(w, ferr.status(), "VALIDATION_ERROR", ferr.Message)
		return
	}

	photo, err := media.PrepareDishPhoto(data)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Image could not be decoded")
			return
		}
		h.writeError(w, r, err)
		return
	}

	fullKey, thumbKey := storage.DishPhotoKeys(id, randomSuffix8())
	fullURL, err := h.Photos.PutObject(ctx, fullKey, photo.Full, "image/jpeg")
	if err != nil {
		h.Logger.Error("dish photo upload failed", zap.Int64("dishId", id), zapError(err))
		response.Error(w, http.StatusBadGateway, "UPLOAD_FAILED", "Failed to store the photo")
		return
	}
	thumbURL, err := h.Photos.PutObject(ctx, thumbKey, photo.Thumb, "image/jpeg")
	if err != nil {
		h.Logger.Error("dish thumbnail upload failed", zap.Int64("dishId", id), zapError(err))
		response.Error(w, http.StatusBadGateway, "UPLOAD_FAILED", "Failed to store the photo")
		return
	}

	dish, err := h.Catalog.SetDishImage(ctx, id, fullURL, thumbURL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.removePreviousPhotos(ctx, previous)
	h.refreshMenu(ctx)
	response.Success(w, map[string]any{
		"dish": dish,
		"source": map[string]any{
			"format": photo.SourceFormat,
			"width":  photo.Width,
			"height": photo.Height,
		},
	})
}

func (h *Handler) removePreviousPhotos(ctx context.Context, dish catalog.Dish) {
	for _, u := range []*string{dish.ImageURL, dish.ImageThumbURL} {
		if u == nil || *u == "" {
			continue
		}
		if err := h.Photos.DeleteURL(ctx, *u); err != nil {
			h.Logger.Warn("previous dish photo cleanup failed", zap.Int64("dishId", dish.ID), zapError(err))
		}
	}
}
