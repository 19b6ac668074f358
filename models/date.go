package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// DateOnly is a yyyy-mm-dd date as used in JSON payloads and DATE columns.
type DateOnly time.Time

const dateOnlyLayout = "2006-01-02"

func NewDateOnly(year int, month time.Month, day int) DateOnly {
	return DateOnly(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func (d DateOnly) Time() time.Time {
	return time.Time(d)
}

func (d DateOnly) String() string {
	return time.Time(d).Format(dateOnlyLayout)
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("date must be a string")
	}
	t, err := time.Parse(dateOnlyLayout, str)
	if err != nil {
		return errors.New("date must be yyyy-mm-dd")
	}
	*d = DateOnly(t)
	return nil
}

func (d DateOnly) Value() (driver.Value, error) {
	return time.Time(d), nil
}

func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = DateOnly(v)
		return nil
	case []byte:
		t, err := time.Parse(dateOnlyLayout, string(v))
		if err != nil {
			return err
		}
		*d = DateOnly(t)
		return nil
	case string:
		t, err := time.Parse(dateOnlyLayout, v)
		if err != nil {
			return err
		}
		*d = DateOnly(t)
		return nil
	}
	return fmt.Errorf("cannot scan %T into DateOnly", value)
}

func (DateOnly) GormDataType() string {
	return "date"
}
