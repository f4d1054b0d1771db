package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// FromDatabase normalizes persistence errors into ApiErr values. It is the
// single place the gorm error surface is mapped to the client-visible
// taxonomy:
//
//   - record not found        -> 404 "<Entity> not found"
//   - duplicate unique field  -> 400 "<Field> already exists"
//   - anything else           -> 500 with the cause attached
func FromDatabase(operation, entity string, cause error) *ApiErr {
	if cause == nil {
		return nil
	}

	if errors.Is(cause, gorm.ErrRecordNotFound) {
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        fmt.Errorf("%s not found: %w", capitalize(entity), ErrNotFound),
			Cause:      cause,
		}
	}

	if errors.Is(cause, gorm.ErrDuplicatedKey) || isDuplicateKey(cause) {
		field := duplicateField(cause, entity)
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			err:        fmt.Errorf("%s already exists: %w", capitalize(field), ErrDuplicate),
			Field:      field,
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("failed to %s %s: %w", operation, entity, ErrInternal),
		Cause:      cause,
	}
}

// isDuplicateKey catches drivers that report unique violations as plain
// errors instead of gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// duplicateField extracts the offending column from a unique-violation
// message. Postgres names the index ("idx_categories_name"), sqlite names
// the column ("categories.name"). Falls back to the entity name.
func duplicateField(err error, entity string) string {
	msg := err.Error()

	if idx := strings.Index(msg, "UNIQUE constraint failed: "); idx >= 0 {
		rest := msg[idx+len("UNIQUE constraint failed: "):]
		if dot := strings.Index(rest, "."); dot >= 0 {
			field := rest[dot+1:]
			if comma := strings.IndexAny(field, ", "); comma >= 0 {
				field = field[:comma]
			}
			return field
		}
	}

	if idx := strings.Index(msg, `unique constraint "`); idx >= 0 {
		rest := msg[idx+len(`unique constraint "`):]
		if end := strings.Index(rest, `"`); end >= 0 {
			// index names look like idx_<table>_<column>
			name := rest[:end]
			if last := strings.LastIndex(name, "_"); last >= 0 && last < len(name)-1 {
				return name[last+1:]
			}
			return name
		}
	}

	return entity
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
