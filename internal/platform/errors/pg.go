package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgState describes how one SQLSTATE surfaces to callers
type pgState struct {
	code      ErrorCode
	retryable bool
}

// pgStates covers what the lease store can run into; anything else is ErrorCodeDB
var pgStates = map[string]pgState{
	"23505": {code: ErrorCodeConflict},        // unique_violation
	"23502": {code: ErrorCodeValidation},      // not_null_violation
	"23514": {code: ErrorCodeValidation},      // check_violation
	"22001": {code: ErrorCodeInvalidArgument}, // string_data_right_truncation
	"22P02": {code: ErrorCodeInvalidArgument}, // invalid_text_representation

	"40001": {code: ErrorCodeDB, retryable: true}, // serialization_failure
	"40P01": {code: ErrorCodeDB, retryable: true}, // deadlock_detected
	"55P03": {code: ErrorCodeDB, retryable: true}, // lock_not_available

	"25006": {code: ErrorCodeUnavailable},                  // read_only_sql_transaction
	"57P01": {code: ErrorCodeUnavailable, retryable: true}, // admin_shutdown
	"57P03": {code: ErrorCodeUnavailable, retryable: true}, // cannot_connect_now
}

// retryableText catches driver messages that arrive without a PgError
var retryableText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
	"terminating connection due to administrator command",
}

// SQLState returns the Postgres SQLSTATE behind err, if any
func SQLState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if err != nil && stderrs.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

// DBErrorCode maps a Postgres error to an ErrorCode; ok is false for non Postgres errors
func DBErrorCode(err error) (ErrorCode, bool) {
	state, ok := SQLState(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if s, known := pgStates[state]; known {
		return s.code, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with its mapped code. nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// IsRetryable reports whether a database error is transient
// Cancellation and deadlines are never retryable here
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if state, ok := SQLState(err); ok {
		return pgStates[state].retryable
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range retryableText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
