package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aidar/resourcing-service/internal/domain"
	"github.com/aidar/resourcing-service/internal/middleware"
)

// actorFromRequest извлекает аутентифицированного пользователя,
// добавленного auth middleware
func actorFromRequest(r *http.Request) (domain.Actor, bool) {
	return middleware.GetActorFromContext(r.Context())
}

// parseUUIDParam разбирает UUID из строки (URL параметр или поле запроса)
func parseUUIDParam(value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
