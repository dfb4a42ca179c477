package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation представляет выделение пользователя на проект с указанным
// количеством часов в неделю. Период может быть ограничен датами;
// аллокация без начальной или конечной даты считается бессрочной.
type Allocation struct {
	ID                    uuid.UUID       `json:"id"`
	ProjectID             uuid.UUID       `json:"project_id"`
	UserID                uuid.UUID       `json:"user_id"`
	AllocatedHoursPerWeek decimal.Decimal `json:"allocated_hours_per_week"`
	StartDate             *Date           `json:"start_date"`
	EndDate               *Date           `json:"end_date"`
	Notes                 string          `json:"notes"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	User                  *UserSummary    `json:"user,omitempty"`
}

// IsOpenEnded сообщает, является ли аллокация бессрочной
// (отсутствует начальная или конечная дата)
func (a *Allocation) IsOpenEnded() bool {
	return a.StartDate == nil || a.EndDate == nil
}

// OverlapsPeriod проверяет, пересекается ли период аллокации с
// периодом кандидата. Бессрочные периоды пересекаются с любыми.
func (a *Allocation) OverlapsPeriod(start, end *Date) bool {
	return PeriodsOverlap(a.StartDate, a.EndDate, start, end)
}

// PeriodsOverlap проверяет пересечение двух периодов. Если у любого из
// периодов отсутствует граница, он считается бессрочным и пересекается
// со всеми. Два полностью заданных периода пересекаются, если ни один
// не заканчивается строго раньше начала другого.
func PeriodsOverlap(aStart, aEnd, bStart, bEnd *Date) bool {
	if aStart == nil || aEnd == nil || bStart == nil || bEnd == nil {
		return true
	}
	return !aStart.After(*bEnd) && !aEnd.Before(*bStart)
}

// AllocationPatch представляет частичное обновление аллокации.
// Поля равные nil остаются без изменений.
type AllocationPatch struct {
	AllocatedHoursPerWeek *decimal.Decimal
	StartDate             *Date
	EndDate               *Date
	Notes                 *string
}

// IsEmpty сообщает, что патч не содержит ни одного поля
func (p *AllocationPatch) IsEmpty() bool {
	return p.AllocatedHoursPerWeek == nil && p.StartDate == nil && p.EndDate == nil && p.Notes == nil
}

// ApplyTo применяет патч к аллокации и сообщает, изменились ли часы
// или границы периода (в этом случае требуется повторная проверка
// доступности)
func (p *AllocationPatch) ApplyTo(a *Allocation) (capacityRelevant bool) {
	if p.AllocatedHoursPerWeek != nil && !p.AllocatedHoursPerWeek.Equal(a.AllocatedHoursPerWeek) {
		a.AllocatedHoursPerWeek = *p.AllocatedHoursPerWeek
		capacityRelevant = true
	}
	if p.StartDate != nil && !datesEqual(p.StartDate, a.StartDate) {
		a.StartDate = p.StartDate
		capacityRelevant = true
	}
	if p.EndDate != nil && !datesEqual(p.EndDate, a.EndDate) {
		a.EndDate = p.EndDate
		capacityRelevant = true
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	return capacityRelevant
}

func datesEqual(a, b *Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
