package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Доменные ошибки сервиса аллокаций
var (
	// ErrUserNotFound возвращается когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrProjectNotFound возвращается когда проект не найден
	ErrProjectNotFound = errors.New("project not found")

	// ErrAllocationNotFound возвращается когда аллокация не найдена
	// (в том числе когда она не принадлежит проекту из запроса)
	ErrAllocationNotFound = errors.New("resource allocation not found")

	// ErrCapacityNotFound возвращается когда у пользователя нет
	// активной записи о доступности
	ErrCapacityNotFound = errors.New("capacity record not found")

	// ErrEmailExists возвращается при попытке создать пользователя с
	// уже занятым email
	ErrEmailExists = errors.New("user with this email already exists")

	// ErrNonPositiveHours возвращается когда часы в неделю <= 0
	ErrNonPositiveHours = errors.New("allocated hours per week must be positive")

	// ErrInvalidDateRange возвращается когда end_date раньше start_date
	ErrInvalidDateRange = errors.New("end date must not be before start date")

	// ErrForbidden возвращается когда у пользователя недостаточно прав
	ErrForbidden = errors.New("insufficient permissions")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// CapacityExceededError возвращается когда аллокация превысила бы
// максимальную доступность пользователя. Содержит всю арифметику
// проверки, чтобы клиент мог скорректировать запрос.
type CapacityExceededError struct {
	MaxHours       decimal.Decimal // Максимум часов в неделю
	ExistingHours  decimal.Decimal // Сумма часов пересекающихся аллокаций
	RequestedHours decimal.Decimal // Запрошенные часы
	TotalHours     decimal.Decimal // Итог: существующие + запрошенные
}

// Error возвращает человекочитаемое описание превышения доступности
func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf(
		"allocation exceeds user capacity: maximum is %s hours/week, already allocated %s hours/week in overlapping periods, requested %s hours/week, total would be %s hours/week",
		e.MaxHours, e.ExistingHours, e.RequestedHours, e.TotalHours,
	)
}

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeBadRequest       ErrorCode = "BAD_REQUEST"        // Некорректный запрос
	CodeCapacityExceeded ErrorCode = "CAPACITY_EXCEEDED"  // Превышена доступность пользователя
	CodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE" // Некорректный период
	CodeNotFound         ErrorCode = "NOT_FOUND"          // Ресурс не найден
	CodeForbidden        ErrorCode = "FORBIDDEN"          // Недостаточно прав
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"       // Не аутентифицирован
	CodeEmailExists      ErrorCode = "EMAIL_EXISTS"       // Email уже занят
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"     // Внутренняя ошибка
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API
func MapErrorToCode(err error) ErrorCode {
	var capErr *CapacityExceededError
	switch {
	case errors.As(err, &capErr):
		return CodeCapacityExceeded
	case errors.Is(err, ErrNonPositiveHours):
		return CodeBadRequest
	case errors.Is(err, ErrInvalidDateRange):
		return CodeInvalidDateRange
	case errors.Is(err, ErrEmailExists):
		return CodeEmailExists
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrAllocationNotFound), errors.Is(err, ErrCapacityNotFound):
		return CodeNotFound
	default:
		return CodeInternalError
	}
}
