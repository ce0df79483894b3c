package apperr

import (
	"fmt"
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Resource + " not found"
}

func NewNotFound(resource, msg string) *NotFoundError {
	return &NotFoundError{Resource: resource, Message: msg}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflict(msg string) *ConflictError {
	return &ConflictError{Message: msg}
}

// FetchError is a failure of a whole provider fetch: network, non-success status,
// malformed payload or timeout.
type FetchError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetch(provider string, err error) *FetchError {
	return &FetchError{Provider: provider, Err: err}
}

func NewFetchStatus(provider string, status int, err error) *FetchError {
	return &FetchError{Provider: provider, StatusCode: status, Err: err}
}

// RecordError rejects a single candidate record. Index is the position of the record
// in the batch it came from.
type RecordError struct {
	Provider string `json:"provider,omitempty"`
	Index    int    `json:"index"`
	Title    string `json:"title,omitempty"`
	Reason   string `json:"reason"`
	Err      error  `json:"-"`
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("record %d", e.Index)
	if e.Provider != "" {
		msg = e.Provider + " " + msg
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func NewRecord(provider string, index int, title, reason string, err error) *RecordError {
	return &RecordError{Provider: provider, Index: index, Title: title, Reason: reason, Err: err}
}

// StoreError means the record store was unreachable or rejected an operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStore(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
