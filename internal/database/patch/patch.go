// Package patch carries partial updates from request payloads to a single
// UPDATE statement.
//
// Payload structs declare their optional fields as Field[T]. After decoding,
// the handler copies every present field into a Changes keyed by column name.
// Columns are fixed by the code that constructs the Changes; request data only
// ever becomes bound values.
//
//	changes := patch.NewChanges("title", "description")
//	if err := patch.SetRequired(changes, "title", req.Title); err != nil {
//		return err
//	}
//	patch.SetNullable(changes, "description", req.Description)
//	if changes.Len() == 0 {
//		return apperr.BadRequest("No fields to update")
//	}
package patch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/0010capacity/capacity-backend/internal/apperr"
)

// Field is a JSON value that remembers whether it was sent at all and
// whether it was sent as null.
type Field[T any] struct {
	Value   T
	Present bool
	Null    bool
}

// Some returns a present, non-null field.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Present: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if string(data) == "null" {
		var zero T
		f.Value = zero
		f.Null = true
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns the value as a pointer, nil when absent or null.
func (f Field[T]) Ptr() *T {
	if !f.Present || f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// Changes is an ordered set of column assignments over a closed column set.
type Changes struct {
	allowed map[string]struct{}
	columns []string
	values  map[string]any
}

func NewChanges(allowed ...string) *Changes {
	c := &Changes{
		allowed: make(map[string]struct{}, len(allowed)),
		values:  make(map[string]any),
	}
	for _, col := range allowed {
		c.allowed[col] = struct{}{}
	}
	return c
}

// Set records an assignment. Setting a column outside the allowed set is a
// programming error and panics.
func (c *Changes) Set(column string, value any) {
	if _, ok := c.allowed[column]; !ok {
		panic(fmt.Sprintf("patch: column %q is not updatable", column))
	}
	if _, seen := c.values[column]; !seen {
		c.columns = append(c.columns, column)
	}
	c.values[column] = value
}

func (c *Changes) Has(column string) bool {
	_, ok := c.values[column]
	return ok
}

func (c *Changes) Get(column string) (any, bool) {
	v, ok := c.values[column]
	return v, ok
}

// Len is the number of assignments made by the caller, excluding updated_at.
func (c *Changes) Len() int {
	return len(c.columns)
}

func (c *Changes) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

// Map returns the assignments plus updated_at = now, ready for gorm Updates.
func (c *Changes) Map(now time.Time) map[string]any {
	m := make(map[string]any, len(c.values)+1)
	for k, v := range c.values {
		m[k] = v
	}
	m["updated_at"] = now
	return m
}

// SetNullable copies a present field, writing NULL for an explicit null.
func SetNullable[T any](c *Changes, column string, f Field[T]) {
	if !f.Present {
		return
	}
	if f.Null {
		c.Set(column, nil)
		return
	}
	c.Set(column, f.Value)
}

// SetRequired copies a present field and rejects an explicit null.
func SetRequired[T any](c *Changes, column string, f Field[T]) error {
	if !f.Present {
		return nil
	}
	if f.Null {
		return apperr.Validation("%s cannot be null", column)
	}
	c.Set(column, f.Value)
	return nil
}

// SetMapped is SetRequired with a conversion applied to the value.
func SetMapped[T any](c *Changes, column string, f Field[T], convert func(T) any) error {
	if !f.Present {
		return nil
	}
	if f.Null {
		return apperr.Validation("%s cannot be null", column)
	}
	c.Set(column, convert(f.Value))
	return nil
}
