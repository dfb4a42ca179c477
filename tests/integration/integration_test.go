package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тестовые структуры данных соответствующие API
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CreateUserResponse struct {
	User UserResponse `json:"user"`
}

type LoginRequest struct {
	UserID string `json:"user_id"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type ProjectResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

type CreateProjectResponse struct {
	Project ProjectResponse `json:"project"`
}

type SetCapacityRequest struct {
	MaxHoursPerWeek     string `json:"max_hours_per_week"`
	DefaultHoursPerWeek string `json:"default_hours_per_week,omitempty"`
}

type CapacityResponse struct {
	ID                  string `json:"id"`
	UserID              string `json:"user_id"`
	MaxHoursPerWeek     string `json:"max_hours_per_week"`
	DefaultHoursPerWeek string `json:"default_hours_per_week"`
	IsActive            bool   `json:"is_active"`
}

type CreateAllocationRequest struct {
	UserID                string  `json:"user_id"`
	AllocatedHoursPerWeek string  `json:"allocated_hours_per_week"`
	StartDate             *string `json:"start_date,omitempty"`
	EndDate               *string `json:"end_date,omitempty"`
	Notes                 string  `json:"notes,omitempty"`
}

type AllocationResponse struct {
	ID                    string  `json:"id"`
	ProjectID             string  `json:"project_id"`
	UserID                string  `json:"user_id"`
	AllocatedHoursPerWeek string  `json:"allocated_hours_per_week"`
	StartDate             *string `json:"start_date"`
	EndDate               *string `json:"end_date"`
	Notes                 string  `json:"notes"`
	User                  *struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func strPtr(s string) *string {
	return &s
}

func decodeJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

// createUser регистрирует пользователя и возвращает его ID
func createUser(t *testing.T, env *TestEnvironment, name, email, role string) string {
	t.Helper()

	body, _ := json.Marshal(CreateUserRequest{Name: name, Email: email, Role: role})
	resp := env.MakeRequest(t, http.MethodPost, "/users", bytes.NewReader(body), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, "User creation should succeed")

	var created CreateUserResponse
	decodeJSON(t, resp, &created)
	return created.User.ID
}

// login возвращает JWT токен пользователя
func login(t *testing.T, env *TestEnvironment, userID string) string {
	t.Helper()

	body, _ := json.Marshal(LoginRequest{UserID: userID})
	resp := env.MakeRequest(t, http.MethodPost, "/auth/login", bytes.NewReader(body), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "Login should succeed")

	var loginResp LoginResponse
	decodeJSON(t, resp, &loginResp)
	require.NotEmpty(t, loginResp.Token)
	return loginResp.Token
}

// TestE2E_ResourceAllocationWorkflow тестирует полный workflow сервиса аллокаций
func TestE2E_ResourceAllocationWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Настраиваем тестовое окружение
	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	// Ждем пока приложение будет готово
	env.WaitForHealthCheck(t)

	// Создаем пользователей: администратора и двух исполнителей
	adminID := createUser(t, env, "Alice", "alice@example.com", "admin")
	workerID := createUser(t, env, "Bob", "bob@example.com", "member")
	unboundedID := createUser(t, env, "Charlie", "charlie@example.com", "member")

	adminToken := login(t, env, adminID)

	// Создаем проект
	var project ProjectResponse
	t.Run("Create Project", func(t *testing.T) {
		body, _ := json.Marshal(CreateProjectRequest{Name: "CRM Migration"})
		resp := env.MakeRequest(t, http.MethodPost, "/projects", bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created CreateProjectResponse
		decodeJSON(t, resp, &created)
		project = created.Project

		assert.Equal(t, "CRM Migration", project.Name)
		assert.Equal(t, adminID, project.OwnerID)
	})

	allocationsPath := fmt.Sprintf("/projects/%s/resource-allocations", project.ID)

	// Устанавливаем доступность исполнителя
	t.Run("Set Worker Capacity", func(t *testing.T) {
		body, _ := json.Marshal(SetCapacityRequest{MaxHoursPerWeek: "40", DefaultHoursPerWeek: "40"})
		resp := env.MakeRequest(t, http.MethodPut, "/users/"+workerID+"/capacity", bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var capacity CapacityResponse
		decodeJSON(t, resp, &capacity)
		assert.Equal(t, workerID, capacity.UserID)
		assert.True(t, capacity.IsActive)

		// Запись доступна через GET
		resp = env.MakeRequest(t, http.MethodGet, "/users/"+workerID+"/capacity", nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		// Явный ноль в default_hours_per_week отклоняется
		resp = env.MakeRequest(t, http.MethodPut, "/users/"+workerID+"/capacity",
			strings.NewReader(`{"max_hours_per_week": "40", "default_hours_per_week": "0"}`), adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()

		// Отсутствующее поле берется равным максимуму
		body, _ = json.Marshal(SetCapacityRequest{MaxHoursPerWeek: "40"})
		resp = env.MakeRequest(t, http.MethodPut, "/users/"+workerID+"/capacity", bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decodeJSON(t, resp, &capacity)
		assert.Equal(t, "40", capacity.DefaultHoursPerWeek)
	})

	// Создаем первую аллокацию: 20 часов на первый квартал
	var firstAllocation AllocationResponse
	t.Run("Create First Allocation", func(t *testing.T) {
		body, _ := json.Marshal(CreateAllocationRequest{
			UserID:                workerID,
			AllocatedHoursPerWeek: "20",
			StartDate:             strPtr("2024-01-01"),
			EndDate:               strPtr("2024-03-31"),
			Notes:                 "Discovery phase",
		})
		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		decodeJSON(t, resp, &firstAllocation)
		assert.Equal(t, workerID, firstAllocation.UserID)
		assert.Equal(t, "20", firstAllocation.AllocatedHoursPerWeek)
		require.NotNil(t, firstAllocation.StartDate)
		assert.Equal(t, "2024-01-01", *firstAllocation.StartDate)

		// Ответ содержит сводку о пользователе
		require.NotNil(t, firstAllocation.User)
		assert.Equal(t, "Bob", firstAllocation.User.Name)
	})

	// Непересекающийся период принимается
	var secondAllocation AllocationResponse
	t.Run("Create Non-Overlapping Allocation", func(t *testing.T) {
		body, _ := json.Marshal(CreateAllocationRequest{
			UserID:                workerID,
			AllocatedHoursPerWeek: "25",
			StartDate:             strPtr("2024-04-01"),
			EndDate:               strPtr("2024-06-30"),
		})
		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		decodeJSON(t, resp, &secondAllocation)
	})

	// Пересекающийся период с превышением отклоняется
	t.Run("Reject Overlapping Allocation Over Capacity", func(t *testing.T) {
		body, _ := json.Marshal(CreateAllocationRequest{
			UserID:                workerID,
			AllocatedHoursPerWeek: "25",
			StartDate:             strPtr("2024-03-15"),
			EndDate:               strPtr("2024-05-01"),
		})
		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp ErrorResponse
		decodeJSON(t, resp, &errResp)
		assert.Equal(t, "CAPACITY_EXCEEDED", errResp.Error.Code)
		// Сообщение содержит арифметику проверки
		assert.Contains(t, errResp.Error.Message, "40")
		assert.Contains(t, errResp.Error.Message, "25")
	})

	// Бессрочная аллокация пересекается со всеми периодами
	t.Run("Reject Open-Ended Allocation Over Capacity", func(t *testing.T) {
		body, _ := json.Marshal(CreateAllocationRequest{
			UserID:                workerID,
			AllocatedHoursPerWeek: "30",
		})
		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp ErrorResponse
		decodeJSON(t, resp, &errResp)
		assert.Equal(t, "CAPACITY_EXCEEDED", errResp.Error.Code)
	})

	// Некорректный период отклоняется до любых записей
	t.Run("Reject Invalid Date Range", func(t *testing.T) {
		body, _ := json.Marshal(CreateAllocationRequest{
			UserID:                workerID,
			AllocatedHoursPerWeek: "5",
			StartDate:             strPtr("2024-06-01"),
			EndDate:               strPtr("2024-01-01"),
		})
		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp ErrorResponse
		decodeJSON(t, resp, &errResp)
		assert.Equal(t, "INVALID_DATE_RANGE", errResp.Error.Code)
	})

	// Список упорядочен по дате начала
	t.Run("List Allocations", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, allocationsPath, nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var allocations []AllocationResponse
		decodeJSON(t, resp, &allocations)
		require.Len(t, allocations, 2)
		assert.Equal(t, firstAllocation.ID, allocations[0].ID)
		assert.Equal(t, secondAllocation.ID, allocations[1].ID)
	})

	secondPath := allocationsPath + "/" + secondAllocation.ID

	// Частичное обновление: уменьшение часов всегда проходит
	t.Run("Update Allocation Hours", func(t *testing.T) {
		body := strings.NewReader(`{"allocated_hours_per_week": "20"}`)
		resp := env.MakeRequest(t, http.MethodPut, secondPath, body, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated AllocationResponse
		decodeJSON(t, resp, &updated)
		assert.Equal(t, "20", updated.AllocatedHoursPerWeek)
	})

	// Повторная отправка тех же значений идемпотентна
	t.Run("Idempotent Update", func(t *testing.T) {
		body := strings.NewReader(`{"allocated_hours_per_week": "20"}`)
		resp := env.MakeRequest(t, http.MethodPut, secondPath, body, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated AllocationResponse
		decodeJSON(t, resp, &updated)
		assert.Equal(t, "20", updated.AllocatedHoursPerWeek)
	})

	// Сдвиг периода в занятое окно отклоняется
	t.Run("Reject Update Moving Into Conflict", func(t *testing.T) {
		body := strings.NewReader(`{"start_date": "2024-02-01", "end_date": "2024-04-30", "allocated_hours_per_week": "25"}`)
		resp := env.MakeRequest(t, http.MethodPut, secondPath, body, adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp ErrorResponse
		decodeJSON(t, resp, &errResp)
		assert.Equal(t, "CAPACITY_EXCEEDED", errResp.Error.Code)
	})

	// Удаление не проверяет доступность
	t.Run("Delete First Allocation", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete, allocationsPath+"/"+firstAllocation.ID, nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var deleted struct {
			Success bool `json:"success"`
		}
		decodeJSON(t, resp, &deleted)
		assert.True(t, deleted.Success)
	})

	// После удаления конфликтующей аллокации сдвиг проходит
	t.Run("Update Succeeds After Conflict Removed", func(t *testing.T) {
		body := strings.NewReader(`{"start_date": "2024-02-01", "end_date": "2024-04-30", "allocated_hours_per_week": "25"}`)
		resp := env.MakeRequest(t, http.MethodPut, secondPath, body, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	// Без записи о доступности действует лимит по умолчанию 40 часов
	t.Run("Default Capacity Is 40 Hours", func(t *testing.T) {
		body, _ := json.Marshal(CreateAllocationRequest{
			UserID:                unboundedID,
			AllocatedHoursPerWeek: "45",
		})
		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp ErrorResponse
		decodeJSON(t, resp, &errResp)
		assert.Equal(t, "CAPACITY_EXCEEDED", errResp.Error.Code)
		assert.Contains(t, errResp.Error.Message, "40")

		// Ровно 40 часов принимается (граница включительно)
		body, _ = json.Marshal(CreateAllocationRequest{
			UserID:                unboundedID,
			AllocatedHoursPerWeek: "40",
		})
		resp = env.MakeRequest(t, http.MethodPost, allocationsPath, bytes.NewReader(body), adminToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	})

	// Статистика загрузки
	t.Run("Utilization Stats", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/stats/utilization/user?user_id="+unboundedID, nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var utilization struct {
			UserID         string `json:"user_id"`
			AllocatedHours string `json:"allocated_hours_per_week"`
			MaxHours       string `json:"max_hours_per_week"`
		}
		decodeJSON(t, resp, &utilization)
		assert.Equal(t, unboundedID, utilization.UserID)
		assert.Equal(t, "40", utilization.AllocatedHours)
		assert.Equal(t, "40", utilization.MaxHours)
	})
}

// TestE2E_AuthorizationRules тестирует правила доступа к эндпоинтам аллокаций
func TestE2E_AuthorizationRules(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)
	env.WaitForHealthCheck(t)

	adminID := createUser(t, env, "Admin", "admin@example.com", "admin")
	memberID := createUser(t, env, "Member", "member@example.com", "member")
	pmID := createUser(t, env, "PM", "pm@example.com", "project_manager")

	adminToken := login(t, env, adminID)
	memberToken := login(t, env, memberID)
	pmToken := login(t, env, pmID)

	// Проект принадлежит администратору
	body, _ := json.Marshal(CreateProjectRequest{Name: "Ops Revamp"})
	resp := env.MakeRequest(t, http.MethodPost, "/projects", bytes.NewReader(body), adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created CreateProjectResponse
	decodeJSON(t, resp, &created)
	allocationsPath := fmt.Sprintf("/projects/%s/resource-allocations", created.Project.ID)

	allocationBody := func() *bytes.Reader {
		b, _ := json.Marshal(CreateAllocationRequest{
			UserID:                memberID,
			AllocatedHoursPerWeek: "10",
		})
		return bytes.NewReader(b)
	}

	t.Run("Unauthenticated Request Is Rejected", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, allocationBody(), "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Member Cannot Mutate", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, allocationBody(), memberToken)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Member Can List", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, allocationsPath, nil, memberToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Project Manager Can Mutate", func(t *testing.T) {
		// Доступность исполнителя задается напрямую в БД
		env.SeedCapacity(t, memberID, "30")

		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, allocationBody(), pmToken)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Seeded Capacity Is Enforced", func(t *testing.T) {
		// У исполнителя лимит 30 часов и уже есть аллокация на 10
		b, _ := json.Marshal(CreateAllocationRequest{
			UserID:                memberID,
			AllocatedHoursPerWeek: "25",
		})
		resp := env.MakeRequest(t, http.MethodPost, allocationsPath, bytes.NewReader(b), adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp ErrorResponse
		decodeJSON(t, resp, &errResp)
		assert.Equal(t, "CAPACITY_EXCEEDED", errResp.Error.Code)
		assert.Contains(t, errResp.Error.Message, "30")
	})

	t.Run("Member Cannot Set Capacity", func(t *testing.T) {
		b, _ := json.Marshal(SetCapacityRequest{MaxHoursPerWeek: "30", DefaultHoursPerWeek: "30"})
		resp := env.MakeRequest(t, http.MethodPut, "/users/"+memberID+"/capacity", bytes.NewReader(b), memberToken)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Unknown Project Returns Not Found", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodPost,
			"/projects/00000000-0000-0000-0000-000000000001/resource-allocations", allocationBody(), adminToken)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Unknown Allocation Returns Not Found", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete,
			allocationsPath+"/00000000-0000-0000-0000-000000000002", nil, adminToken)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}
