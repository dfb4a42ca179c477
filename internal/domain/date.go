package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout это формат календарной даты в API
const DateLayout = "2006-01-02"

// Date представляет календарную дату без времени суток.
// Сериализуется в JSON как строка формата YYYY-MM-DD.
type Date struct {
	t time.Time
}

// NewDate создает дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf усекает time.Time до календарной даты
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate разбирает строку формата YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected format %s", s, DateLayout)
	}
	return Date{t: t}, nil
}

// Time возвращает дату как time.Time (полночь UTC)
func (d Date) Time() time.Time {
	return d.t
}

// Before сообщает, предшествует ли дата d дате other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After сообщает, следует ли дата d после даты other
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal сообщает, совпадают ли даты
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// String возвращает дату в формате YYYY-MM-DD
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// MarshalJSON сериализует дату как строку YYYY-MM-DD
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON разбирает дату из строки YYYY-MM-DD
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DatePtr возвращает указатель на дату (удобно для опциональных полей)
func DatePtr(d Date) *Date {
	return &d
}

// DateFromTimePtr конвертирует *time.Time из БД в *Date
func DateFromTimePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := DateOf(*t)
	return &d
}

// TimePtrFromDate конвертирует *Date в *time.Time для параметров запросов
func TimePtrFromDate(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}
