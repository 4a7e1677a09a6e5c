package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"trattoria-order-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// 1MB is plenty for any JSON body this API accepts.
const maxJSONBody = 1 << 20

func zapError(err error) zap.Field {
	return zap.Error(err)
}

func readPathString(r *http.Request, key string) string {
	return strings.TrimSpace(chi.URLParam(r, key))
}

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := readPathString(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	var out int64
	if _, err := fmt.Sscan(value, &out); err != nil {
		return 0, err
	}
	return out, nil
}

var errMissingParam = errors.New("missing param")

// decodeJSON reads a JSON body and writes a 400 on failure. It returns false
// when the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body is required")
			return false
		}
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return false
	}
	return true
}

func readID(w http.ResponseWriter, r *http.Request, key, label string) (int64, bool) {
	id, err := readPathInt64(r, key)
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", label+" is required")
		return 0, false
	}
	return id, true
}
