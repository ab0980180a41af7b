// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/shopmind/shopmind/internal/logging"
	"github.com/shopmind/shopmind/internal/models"
	"github.com/shopmind/shopmind/internal/recommend"
	"github.com/shopmind/shopmind/internal/store"
	"github.com/shopmind/shopmind/internal/validation"
)

// sanitizeLogValue removes control characters from strings before they
// reach the log stream, so request-supplied values cannot forge log
// entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondSuccess wraps data in the standard success envelope with
// query timing taken from the handler start time.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondEngineError maps engine sentinel errors to HTTP statuses. An
// unfitted or underfed model is a service-availability condition, not a
// client fault.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrNotFitted), errors.Is(err, recommend.ErrInsufficientData):
		respondError(w, http.StatusServiceUnavailable, "MODEL_NOT_READY",
			"Recommendation model has not been trained yet", err)
	case errors.Is(err, recommend.ErrModeMismatch):
		respondError(w, http.StatusBadRequest, "MODE_MISMATCH",
			"Query requires the other similarity mode", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to answer recommendation query", err)
	}
}

// respondStoreError maps store errors: missing rows are 404, everything
// else is a database fault.
func respondStoreError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", message, err)
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError using the
// VALIDATION_ERROR code.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeJSONBody decodes a request body, rejecting unknown fields.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathID parses a positive integer path parameter.
func pathID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("not a positive integer: %q", value)
	}
	return id, nil
}

// countParam extracts an integer query parameter bounded to [1, max],
// falling back to defaultValue when absent or unparseable.
func countParam(r *http.Request, key string, defaultValue, max int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", key, value)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("%s must be 1 to %d", key, max)
	}
	return n, nil
}

// boolParam extracts a boolean query parameter with a default value.
func boolParam(r *http.Request, key string, defaultValue bool) bool {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
