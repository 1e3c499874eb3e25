package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"wallboard/internal/model"

	"go.uber.org/zap"
)

// InitLogger : builds a zap logger for the given mode and installs it as the global one
func InitLogger(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}

// LogError : logs err under message and returns it wrapped as "message: err"
func LogError(message string, err error) error {
	zap.L().Error(message, zap.Error(err))
	return fmt.Errorf("%s: %w", message, err)
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	_ = json.NewEncoder(w).Encode(errorResponse)
}

// HandleServiceError : maps a service error onto an HTTP status and writes it
func HandleServiceError(w http.ResponseWriter, err error) {
	HandleError(w, err.Error(), StatusFromError(err))
}

func StatusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, model.ErrBoardNotFound),
		errors.Is(err, model.ErrProblemNotFound),
		errors.Is(err, model.ErrAccessCodeNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAccessCodeExpired):
		return http.StatusGone
	case errors.Is(err, model.ErrUserEmailExists):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON : writes v with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}
