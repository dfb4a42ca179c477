package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/resourcing-service/internal/domain"
)

// logger используется для записи неожиданных ошибок перед ответом 500
var logger = slog.Default()

// SetLogger задает логгер для необработанных ошибок
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код и описание ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var capErr *domain.CapacityExceededError
	switch {
	case errors.As(err, &capErr):
		// Сообщение содержит всю арифметику проверки (максимум,
		// существующие часы, запрошенные, итог)
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeCapacityExceeded), capErr.Error())
	case errors.Is(err, domain.ErrNonPositiveHours):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeBadRequest), domain.ErrNonPositiveHours.Error())
	case errors.Is(err, domain.ErrInvalidDateRange):
		RespondWithError(w, r, http.StatusBadRequest, string(domain.CodeInvalidDateRange), domain.ErrInvalidDateRange.Error())
	case errors.Is(err, domain.ErrEmailExists):
		RespondWithError(w, r, http.StatusConflict, string(domain.CodeEmailExists), domain.ErrEmailExists.Error())
	case errors.Is(err, domain.ErrForbidden):
		RespondWithError(w, r, http.StatusForbidden, string(domain.CodeForbidden), "insufficient permissions")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		RespondWithError(w, r, http.StatusUnauthorized, string(domain.CodeUnauthorized), "unauthorized")
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrAllocationNotFound), errors.Is(err, domain.ErrCapacityNotFound):
		RespondWithError(w, r, http.StatusNotFound, string(domain.CodeNotFound), err.Error())
	default:
		// Неожиданная ошибка: логируем причину, клиенту отдаем общий 500
		logger.Error("Unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		RespondWithError(w, r, http.StatusInternalServerError, string(domain.CodeInternalError), "internal server error")
	}
}
