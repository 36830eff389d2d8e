package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// LocalTime is a custom time type to format time as "YYYY-MM-DD HH:MM:SS".
type LocalTime time.Time

// LocalDate is a custom time type to format time as "YYYY-MM-DD".
type LocalDate time.Time

const (
	timeFormat = "2006-01-02 15:04:05"
	dateFormat = "2006-01-02"
)

// MarshalJSON implements the json.Marshaler interface.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	formatted := fmt.Sprintf("\"%s\"", time.Time(t).Format(timeFormat))
	return []byte(formatted), nil
}

// MarshalJSON implements the json.Marshaler interface.
func (d LocalDate) MarshalJSON() ([]byte, error) {
	formatted := fmt.Sprintf("\"%s\"", time.Time(d).Format(dateFormat))
	return []byte(formatted), nil
}

// UnmarshalJSON 支持 "YYYY-MM-DD" 形式的日期反序列化。
func (d *LocalDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), "\"")
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := time.Parse(dateFormat, s)
	if err != nil {
		return err
	}
	*d = LocalDate(parsed)
	return nil
}

// Value implements the driver.Valuer interface for GORM.
func (t LocalTime) Value() (driver.Value, error) {
	return time.Time(t), nil
}

// Scan implements the sql.Scanner interface for GORM.
func (t *LocalTime) Scan(v interface{}) error {
	if value, ok := v.(time.Time); ok {
		*t = LocalTime(value)
		return nil
	}
	return fmt.Errorf("cannot convert %v to LocalTime", v)
}

// Value implements the driver.Valuer interface for GORM.
func (d LocalDate) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Scan implements the sql.Scanner interface for GORM.
func (d *LocalDate) Scan(v interface{}) error {
	if value, ok := v.(time.Time); ok {
		*d = LocalDate(value)
		return nil
	}
	return fmt.Errorf("cannot convert %v to LocalDate", v)
}
