package remote

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vaultsync/internal/remote/migrations"
	"github.com/dmitrijs2005/vaultsync/internal/scope"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresClient implements Client and RoomDirectory over a Postgres
// database reached through the pgx stdlib driver.
//
// The items table carries two partial unique indexes, one per scope branch:
// (user_id, title) WHERE room_id IS NULL and (room_id, title) WHERE room_id
// IS NOT NULL. Upserts target the index matching the scope, so a personal
// item and a room item may share a title without conflicting.
type PostgresClient struct {
	db *sql.DB
}

// NewPostgresClient opens the database, verifies connectivity and applies
// pending migrations.
func NewPostgresClient(ctx context.Context, dsn string) (*PostgresClient, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &PostgresClient{db: db}, nil
}

// NewPostgresClientFromDB wraps an existing handle. Used by tests.
func NewPostgresClientFromDB(db *sql.DB) *PostgresClient {
	return &PostgresClient{db: db}
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (c *PostgresClient) Close() error {
	return c.db.Close()
}

// List returns all rows in scope ordered by title. The predicate is a
// strict branch on the scope: ORing the user and room conditions together
// would leak personal items into room views.
func (c *PostgresClient) List(ctx context.Context, sc scope.Scope) ([]Row, error) {
	var (
		query string
		arg   string
	)
	if sc.IsRoom() {
		query = `SELECT title, kind, ciphertext, iv, salt, updated_at FROM items
			WHERE room_id = $1 ORDER BY title`
		arg = sc.RoomID
	} else {
		query = `SELECT title, kind, ciphertext, iv, salt, updated_at FROM items
			WHERE user_id = $1 AND room_id IS NULL ORDER BY title`
		arg = sc.OwnerID
	}

	rows, err := c.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var (
			item                 Row
			ciphertext, iv, salt sql.NullString
		)
		if err := rows.Scan(&item.Title, &item.Kind, &ciphertext, &iv, &salt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Record.Ciphertext = ciphertext.String
		item.Record.IV = iv.String
		item.Record.Salt = salt.String
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}
	return result, nil
}

// Upsert inserts or replaces the row keyed by (scope, title), conflicting
// against the partial unique index of the scope's branch.
func (c *PostgresClient) Upsert(ctx context.Context, sc scope.Scope, row Row) error {
	var (
		query string
		args  []any
	)
	if sc.IsRoom() {
		query = `INSERT INTO items (user_id, room_id, title, kind, ciphertext, iv, salt, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			ON CONFLICT (room_id, title) WHERE room_id IS NOT NULL
			DO UPDATE SET kind = EXCLUDED.kind, ciphertext = EXCLUDED.ciphertext,
				iv = EXCLUDED.iv, salt = EXCLUDED.salt, updated_at = now()`
		args = []any{sc.OwnerID, sc.RoomID, row.Title, row.Kind,
			row.Record.Ciphertext, row.Record.IV, row.Record.Salt}
	} else {
		query = `INSERT INTO items (user_id, room_id, title, kind, ciphertext, iv, salt, updated_at)
			VALUES ($1, NULL, $2, $3, $4, $5, $6, now())
			ON CONFLICT (user_id, title) WHERE room_id IS NULL
			DO UPDATE SET kind = EXCLUDED.kind, ciphertext = EXCLUDED.ciphertext,
				iv = EXCLUDED.iv, salt = EXCLUDED.salt, updated_at = now()`
		args = []any{sc.OwnerID, row.Title, row.Kind,
			row.Record.Ciphertext, row.Record.IV, row.Record.Salt}
	}

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting item %q: %w", row.Title, err)
	}
	return nil
}

// Delete removes the row matching the full scope predicate. Deleting a row
// that is already gone is a no-op: a slow concurrent flush may have
// recreated nothing to delete.
func (c *PostgresClient) Delete(ctx context.Context, sc scope.Scope, title string) error {
	var (
		query string
		args  []any
	)
	if sc.IsRoom() {
		query = `DELETE FROM items WHERE room_id = $1 AND title = $2`
		args = []any{sc.RoomID, title}
	} else {
		query = `DELETE FROM items WHERE user_id = $1 AND title = $2 AND room_id IS NULL`
		args = []any{sc.OwnerID, title}
	}

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting item %q: %w", title, err)
	}
	return nil
}

// Rename updates the title column in place for the scope-qualified row.
func (c *PostgresClient) Rename(ctx context.Context, sc scope.Scope, oldTitle, newTitle string) error {
	var (
		query string
		args  []any
	)
	if sc.IsRoom() {
		query = `UPDATE items SET title = $1, updated_at = now()
			WHERE room_id = $2 AND title = $3`
		args = []any{newTitle, sc.RoomID, oldTitle}
	} else {
		query = `UPDATE items SET title = $1, updated_at = now()
			WHERE user_id = $2 AND title = $3 AND room_id IS NULL`
		args = []any{newTitle, sc.OwnerID, oldTitle}
	}

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("renaming item %q: %w", oldTitle, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("renaming item %q: %w", oldTitle, ErrNotFound)
	}
	return nil
}

var _ Client = (*PostgresClient)(nil)
