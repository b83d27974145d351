package errs

import (
	"fmt"
	"strings"
)

type UnauthorizedError struct {
	Err error
}

func (t UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %v", t.Err)
}

func (t UnauthorizedError) Unwrap() error { return t.Err }

type NotFoundError struct {
	Entity string
	ID     any
}

func (t NotFoundError) Error() string {
	if t.ID == nil {
		return fmt.Sprintf("%s not found", t.Entity)
	}
	return fmt.Sprintf("%s %v not found", t.Entity, t.ID)
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (t ValidationError) Error() string {
	if len(t.Fields) == 0 {
		return t.Message
	}
	parts := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s (%s)", t.Message, strings.Join(parts, "; "))
}

// ConflictError reports a domain already used by another client's site.
type ConflictError struct {
	Domain     string
	SiteID     uint64
	ClientID   uint64
	ClientName string
}

func (t ConflictError) Error() string {
	return fmt.Sprintf("domain %s is already used by client %s", t.Domain, t.ClientName)
}

// IntegrityError means stored data does not decode into its expected shape.
type IntegrityError struct {
	Err error
}

func (t IntegrityError) Error() string {
	return fmt.Sprintf("stored data is corrupt: %v", t.Err)
}

func (t IntegrityError) Unwrap() error { return t.Err }

type TransactionError struct {
	Op  string
	Err error
}

func (t TransactionError) Error() string {
	return fmt.Sprintf("%s failed: %v", t.Op, t.Err)
}

func (t TransactionError) Unwrap() error { return t.Err }

type RetryableError struct {
	Err error
}

func (t RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", t.Err)
}

func (t RetryableError) Unwrap() error { return t.Err }
