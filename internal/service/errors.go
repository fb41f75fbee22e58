package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suteetoe/backoffice/internal/repository"
)

// NotFoundError reports that no entity exists under Key
type NotFoundError struct {
	Entity string
	Key    interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Entity, e.Key)
}

// ConflictError reports that Value is already held by a different record
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s already exists: %s", e.Entity, e.Field, e.Value)
}

// FieldViolation describes one failed field rule
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError reports input rejected before any lookup or write
type ValidationError struct {
	Message string
	Fields  []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		rule := f.Rule
		if f.Param != "" {
			rule += "=" + f.Param
		}
		parts = append(parts, f.Field+" ("+rule+")")
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}

func notFound(entity string, key interface{}, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, Key: key}
	}
	return fmt.Errorf("load %s %v: %w", entity, key, err)
}

// pageError turns a rejected sort into a validation error
func pageError(entity string, err error) error {
	if errors.Is(err, repository.ErrUnknownSortField) {
		return &ValidationError{Message: err.Error()}
	}
	return fmt.Errorf("list %s: %w", entity, err)
}
