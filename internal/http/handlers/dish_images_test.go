package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"trattoria-order-service/internal/catalog"
	"trattoria-order-service/internal/config"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fakePhotoStore struct {
	mu      sync.Mutex
	puts    []string
	deleted []string
}

func (f *fakePhotoStore) PutObject(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakePhotoStore) DeletePrefix(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, prefix)
	return nil
}

func (f *fakePhotoStore) DeleteURL(_ context.Context, raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, raw)
	return nil
}

func newPhotoTestHandler(t *testing.T, photos PhotoStore) http.Handler {
	t.Helper()
	store := catalog.NewMemoryStore()
	if err := catalog.Seed(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := &Handler{
		Logger:  zap.NewNop(),
		Config:  config.Config{MaxFileSizeBytes: 1 << 20},
		Catalog: catalog.NewService(store),
		Menu:    catalog.NewMenu(catalog.StoreSource{Store: store}, zap.NewNop()),
		Photos:  photos,
	}
	r := chi.NewRouter()
	r.Post("/api/dishes/{id}/image", h.UploadDishImage)
	r.Delete("/api/dishes/{id}", h.DeleteDish)
	return r
}

func pngUpload(t *testing.T, field string, w, h int) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var raw bytes.Buffer
	if err := png.Encode(&raw, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "dish.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write(raw.Bytes())
	_ = mw.Close()
	return &body, mw.FormDataContentType()
}

func uploadPhoto(t *testing.T, router http.Handler, field string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := pngUpload(t, field, 40, 20)
	req := httptest.NewRequest(http.MethodPost, "/api/dishes/1/image", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestUploadDishImage(t *testing.T) {
	photos := &fakePhotoStore{}
	router := newPhotoTestHandler(t, photos)

	rr := uploadPhoto(t, router, "file")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data struct {
			Dish   catalog.Dish `json:"dish"`
			Source struct {
				Format string `json:"format"`
				Width  int    `json:"width"`
			} `json:"source"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Source.Format != "png" || env.Data.Source.Width != 40 {
		t.Fatalf("unexpected source info %+v", env.Data.Source)
	}
	if env.Data.Dish.ImageURL == nil || !strings.HasPrefix(*env.Data.Dish.ImageURL, "https://cdn.test/dishes/1/") {
		t.Fatalf("expected the stored photo url on the dish, got %v", env.Data.Dish.ImageURL)
	}
	if len(photos.puts) != 2 || len(photos.deleted) != 0 {
		t.Fatalf("expected full + thumb uploads and no cleanup, got %v / %v", photos.puts, photos.deleted)
	}

	// a second upload replaces the first pair
	if rr := uploadPhoto(t, router, "file"); rr.Code != http.StatusOK {
		t.Fatalf("second upload: expected 200, got %d", rr.Code)
	}
	if len(photos.deleted) != 2 || photos.deleted[0] != *env.Data.Dish.ImageURL {
		t.Fatalf("expected the previous photo removed, got %v", photos.deleted)
	}
}

func TestUploadDishImageValidation(t *testing.T) {
	router := newPhotoTestHandler(t, &fakePhotoStore{})

	rr := uploadPhoto(t, router, "picture")
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "File is required") {
		t.Fatalf("expected a missing file error, got %d %s", rr.Code, rr.Body.String())
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", "notes.txt")
	_, _ = part.Write([]byte("definitely not an image"))
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/dishes/1/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "Invalid file type") {
		t.Fatalf("expected an invalid type error, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestDeleteDishRemovesPhotos(t *testing.T) {
	photos := &fakePhotoStore{}
	router := newPhotoTestHandler(t, photos)

	req := httptest.NewRequest(http.MethodDelete, "/api/dishes/2", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(photos.deleted) != 1 || photos.deleted[0] != "dishes/2/" {
		t.Fatalf("expected the dish prefix removed, got %v", photos.deleted)
	}
}
