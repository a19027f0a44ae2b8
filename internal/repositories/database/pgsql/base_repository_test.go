package pgsql

import (
	"errors"
	"testing"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapWriteError(t *testing.T) {
	connReset := errors.New("connection reset by peer")

	tests := []struct {
		name    string
		err     error
		wantIs  error
		notIs   error
		wantMsg string
	}{
		{
			name:    "unique violation",
			err:     &pgconn.PgError{Code: pgUniqueViolation, Message: "duplicate key"},
			wantIs:  apperrors.ErrDuplicate,
			notIs:   apperrors.ErrRemoteService,
			wantMsg: "account with code 1000",
		},
		{
			name:    "other constraint",
			err:     &pgconn.PgError{Code: "23503", Message: "foreign key violation"},
			wantIs:  apperrors.ErrRemoteService,
			notIs:   apperrors.ErrDuplicate,
			wantMsg: "failed to write account with code 1000",
		},
		{
			name:    "connection failure",
			err:     connReset,
			wantIs:  connReset,
			notIs:   apperrors.ErrDuplicate,
			wantMsg: "connection reset by peer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError(tt.err, "account with code 1000")

			assert.ErrorIs(t, got, tt.wantIs)
			assert.NotErrorIs(t, got, tt.notIs)
			assert.Contains(t, got.Error(), tt.wantMsg)
		})
	}
}

func TestMapWriteError_ConnectionFailureIsRemote(t *testing.T) {
	err := mapWriteError(errors.New("i/o timeout"), "journal entry je-1")

	assert.ErrorIs(t, err, apperrors.ErrRemoteService)
}
