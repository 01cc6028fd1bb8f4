package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrNoRowsAffected is returned by UpdateOne when the statement matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
	ErrTxInProgress   = errors.New("transaction already in progress")
	ErrNoTx           = errors.New("no transaction in progress")
	ErrEmptyQuery     = errors.New("empty query")
)

// DataAccessError is the only error type the executor returns. It keeps the
// failed statement for diagnostics so callers never see driver types.
type DataAccessError struct {
	Op    string
	Query string
	Err   error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("database %s failed: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// Scanner is satisfied by *sql.Rows and *sql.Row.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc maps the current row to a value.
type ScanFunc[T any] func(Scanner) (T, error)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Executor runs statements for a single logical operation. Between Begin
// and Commit/Rollback every call goes through the same transaction and
// therefore the same pooled connection. Outside a transaction each call
// borrows a connection from the pool and hands it back when done.
//
// An Executor is not safe for concurrent use; create one per operation.
type Executor struct {
	db *sql.DB
	tx *sql.Tx
}

func NewExecutor(db *sql.DB) *Executor { return &Executor{db: db} }

func (e *Executor) conn() querier {
	if e.tx != nil {
		return e.tx
	}
	return e.db
}

// InTx reports whether a transaction is open.
func (e *Executor) InTx() bool { return e.tx != nil }

// Begin opens a transaction. Only one may be open at a time.
func (e *Executor) Begin(ctx context.Context) error {
	if e.tx != nil {
		return &DataAccessError{Op: "begin", Err: ErrTxInProgress}
	}
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return &DataAccessError{Op: "begin", Err: err}
	}
	e.tx = tx
	return nil
}

// Commit commits the open transaction and releases its connection.
func (e *Executor) Commit() error {
	if e.tx == nil {
		return &DataAccessError{Op: "commit", Err: ErrNoTx}
	}
	tx := e.tx
	e.tx = nil
	if err := tx.Commit(); err != nil {
		return &DataAccessError{Op: "commit", Err: err}
	}
	return nil
}

// Rollback aborts the open transaction. It never fails: a rollback error
// leaves the driver to discard the connection, and with no open
// transaction it does nothing.
func (e *Executor) Rollback() {
	if e.tx == nil {
		return
	}
	tx := e.tx
	e.tx = nil
	_ = tx.Rollback()
}

// WithTx runs fn inside a transaction, rolling back when fn or the commit
// fails.
func WithTx(ctx context.Context, e *Executor, fn func() error) error {
	if err := e.Begin(ctx); err != nil {
		return err
	}
	if err := fn(); err != nil {
		e.Rollback()
		return err
	}
	if err := e.Commit(); err != nil {
		e.Rollback()
		return err
	}
	return nil
}

// Find returns every row of an unparameterized query.
func Find[T any](ctx context.Context, e *Executor, query string, scan ScanFunc[T]) ([]T, error) {
	return query0(ctx, e, "find", query, scan)
}

// FindSome returns every row matching the bound arguments.
func FindSome[T any](ctx context.Context, e *Executor, query string, scan ScanFunc[T], args ...any) ([]T, error) {
	return query0(ctx, e, "findSome", query, scan, args...)
}

// FindOne returns the first row, and false when there is none.
func FindOne[T any](ctx context.Context, e *Executor, query string, scan ScanFunc[T], args ...any) (T, bool, error) {
	var zero T
	rows, err := query0(ctx, e, "findOne", query, scan, args...)
	if err != nil {
		return zero, false, err
	}
	if len(rows) == 0 {
		return zero, false, nil
	}
	return rows[0], true, nil
}

// Count runs a query whose first column is a count.
func Count(ctx context.Context, e *Executor, query string, args ...any) (int64, error) {
	n, found, err := FindOne(ctx, e, query, func(s Scanner) (int64, error) {
		var v int64
		err := s.Scan(&v)
		return v, err
	}, args...)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return n, nil
}

// Create runs an INSERT and returns the generated id as a string.
func Create(ctx context.Context, e *Executor, query string, args ...any) (string, error) {
	res, err := exec(ctx, e, "create", query, args...)
	if err != nil {
		return "", err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", &DataAccessError{Op: "create", Query: query, Err: err}
	}
	return strconv.FormatInt(id, 10), nil
}

// UpdateOne runs an UPDATE that must match a row. The pool is opened with
// clientFoundRows, so RowsAffected counts matched rows and an update that
// leaves the values unchanged still reports true.
func UpdateOne(ctx context.Context, e *Executor, query string, args ...any) (bool, error) {
	n, err := affected(ctx, e, "updateOne", query, args...)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, &DataAccessError{Op: "updateOne", Query: query, Err: ErrNoRowsAffected}
	}
	return true, nil
}

// DeleteOne reports whether a row was deleted.
func DeleteOne(ctx context.Context, e *Executor, query string, args ...any) (bool, error) {
	n, err := affected(ctx, e, "deleteOne", query, args...)
	return n > 0, err
}

// DeleteSome reports whether any row was deleted.
func DeleteSome(ctx context.Context, e *Executor, query string, args ...any) (bool, error) {
	n, err := affected(ctx, e, "deleteSome", query, args...)
	return n > 0, err
}

func query0[T any](ctx context.Context, e *Executor, op, query string, scan ScanFunc[T], args ...any) ([]T, error) {
	if query == "" {
		return nil, &DataAccessError{Op: op, Err: ErrEmptyQuery}
	}
	rows, err := e.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &DataAccessError{Op: op, Query: query, Err: err}
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, &DataAccessError{Op: op, Query: query, Err: err}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataAccessError{Op: op, Query: query, Err: err}
	}
	return out, nil
}

func exec(ctx context.Context, e *Executor, op, query string, args ...any) (sql.Result, error) {
	if query == "" {
		return nil, &DataAccessError{Op: op, Err: ErrEmptyQuery}
	}
	res, err := e.conn().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, &DataAccessError{Op: op, Query: query, Err: err}
	}
	return res, nil
}

func affected(ctx context.Context, e *Executor, op, query string, args ...any) (int64, error) {
	res, err := exec(ctx, e, op, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &DataAccessError{Op: op, Query: query, Err: err}
	}
	return n, nil
}
