package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrConnAcquire marks failures to obtain a database connection, as opposed
// to failures of the statement run on it.
var ErrConnAcquire = errors.New("acquire database connection")

type DB interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row

	CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error)
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults

	// WithConn pins a single connection for the duration of connFunc.
	WithConn(ctx context.Context, connFunc func(DB) error) error
	// WithTx executes a function in a new transaction.
	WithTx(ctx context.Context, txFunc func(DB) error) error
}

type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

var (
	_ DB            = (*Client)(nil)
	_ DB            = (*connWrapper)(nil)
	_ DB            = (*txWrapper)(nil)
	_ HealthChecker = (*Client)(nil)
)

type Client struct {
	*pgxpool.Pool
}

// NewClient creates a new db client.
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool}
}

// WithConn acquires one connection from the pool, hands it to connFunc and
// releases it when connFunc returns.
func (p *Client) WithConn(ctx context.Context, connFunc func(DB) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnAcquire, err)
	}
	defer conn.Release()

	return connFunc(&connWrapper{Conn: conn})
}

func (p *Client) WithTx(ctx context.Context, txFunc func(DB) error) error {
	return p.WithConn(ctx, func(conn DB) error {
		return conn.WithTx(ctx, txFunc)
	})
}

func (p *Client) IsHealthy(ctx context.Context) (bool, error) {
	err := p.Ping(ctx)
	if err != nil {
		return false, fmt.Errorf("ping database: %w", err)
	}
	return true, nil
}

type connWrapper struct {
	*pgxpool.Conn
}

func (c *connWrapper) WithConn(_ context.Context, connFunc func(DB) error) error {
	return connFunc(c)
}

func (c *connWrapper) WithTx(ctx context.Context, txFunc func(DB) error) (err error) {
	tx, err := c.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			rbErr := tx.Rollback(ctx)
			if !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if err = txFunc(&txWrapper{Tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("commit transaction: %w", err)
	}

	return err
}

type txWrapper struct {
	pgx.Tx
}

func (t *txWrapper) WithConn(_ context.Context, connFunc func(DB) error) error {
	return connFunc(t)
}

func (t *txWrapper) WithTx(_ context.Context, txFunc func(DB) error) error {
	return txFunc(t)
}
