package core

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrWalletUnavailable   = errors.New("wallet unavailable")
	ErrUserRejected        = errors.New("user rejected")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrNetwork             = errors.New("network error")
	ErrValidation          = errors.New("validation failed")
	ErrDecode              = errors.New("decode error")
	ErrNotFound            = errors.New("not found")
	ErrNotRegistered       = errors.New("not registered")
)

type ErrorKind string

const (
	KindWalletUnavailable   ErrorKind = "wallet_unavailable"
	KindUserRejected        ErrorKind = "user_rejected"
	KindTransactionReverted ErrorKind = "transaction_reverted"
	KindNetwork             ErrorKind = "network_error"
	KindValidation          ErrorKind = "validation_error"
	KindDecode              ErrorKind = "decode_error"
	KindNotFound            ErrorKind = "not_found"
	KindNotRegistered       ErrorKind = "not_registered"
	KindUnknown             ErrorKind = "unknown"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrValidation, KindValidation},
	{ErrWalletUnavailable, KindWalletUnavailable},
	{ErrUserRejected, KindUserRejected},
	{ErrTransactionReverted, KindTransactionReverted},
	{ErrNotFound, KindNotFound},
	{ErrNotRegistered, KindNotRegistered},
	{ErrDecode, KindDecode},
	{ErrNetwork, KindNetwork},
}

// KindOf maps err onto the error taxonomy. Errors outside it are KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindUnknown
}

// ValidationError collects per-field messages produced before any network call.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}

	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Err returns nil when no field failed, so callers can `return v.Err()`.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}

	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldError is shorthand for a single-field ValidationError.
func FieldError(field, msg string) error {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}
