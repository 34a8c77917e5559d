package site

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON is a nullable JSON column decoded into T.  NULL and empty values
// scan as Valid == false.
type JSON[T any] struct {
	V     T
	Valid bool
}

// Scan implements sql.Scanner.
func (j *JSON[T]) Scan(src any) error {
	var zero T
	j.V, j.Valid = zero, false
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("site: cannot scan %T into JSON column", src)
	}
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &j.V); err != nil {
		return fmt.Errorf("site: json column: %w", err)
	}
	j.Valid = true
	return nil
}

// Value implements driver.Valuer.
func (j JSON[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Ptr returns &V when valid, else nil.
func (j JSON[T]) Ptr() *T {
	if !j.Valid {
		return nil
	}
	v := j.V
	return &v
}

// JSONOf wraps v; a nil pointer becomes NULL.
func JSONOf[T any](v *T) JSON[T] {
	if v == nil {
		return JSON[T]{}
	}
	return JSON[T]{V: *v, Valid: true}
}
