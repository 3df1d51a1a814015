package blueprint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository on SQLite. Appends use the JSON1
// json_insert function so the concatenation happens inside one statement.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a Repository backed by db. The caller owns db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// EnsureSchema creates the blueprint table if it does not exist.
func (r *SQLiteRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, SQLiteSchema); err != nil {
		return fmt.Errorf("%w: creating schema: %w", ErrStorageFailure, err)
	}
	return nil
}

func scanSQLiteBlueprint(scan func(dest ...any) error) (*Blueprint, error) {
	var (
		bp  Blueprint
		raw string
	)
	if err := scan(&bp.Author, &bp.Name, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning blueprint row: %w", ErrStorageFailure, err)
	}

	points, err := decodePoints([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", ErrDataCorruption, bp.Author, bp.Name, err)
	}
	bp.Points = points
	return &bp, nil
}

// Save inserts a new blueprint row.
func (r *SQLiteRepository) Save(ctx context.Context, bp *Blueprint) error {
	points, err := encodePoints(bp.Points)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO blueprint (author, name, points) VALUES (?, ?, json(?))`,
		bp.Author, bp.Name, points)
	if err != nil {
		if isSQLiteConstraint(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, bp.Key())
		}
		return fmt.Errorf("%w: inserting blueprint: %w", ErrStorageFailure, err)
	}
	return nil
}

// Get retrieves a single blueprint by its identity.
func (r *SQLiteRepository) Get(ctx context.Context, author, name string) (*Blueprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM blueprint WHERE author = ? AND name = ?`, allColumns)

	bp, err := scanSQLiteBlueprint(r.db.QueryRowContext(ctx, query, author, name).Scan)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, author, name)
	}
	return bp, err
}

// GetByAuthor retrieves every blueprint owned by author.
func (r *SQLiteRepository) GetByAuthor(ctx context.Context, author string) ([]Blueprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM blueprint WHERE author = ? ORDER BY name ASC`, allColumns)

	bps, err := r.list(ctx, query, author)
	if err != nil {
		return nil, err
	}
	if len(bps) == 0 {
		return nil, fmt.Errorf("%w: no blueprints for author %q", ErrNotFound, author)
	}
	return bps, nil
}

// GetAll retrieves every stored blueprint ordered by identity.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]Blueprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM blueprint ORDER BY author ASC, name ASC`, allColumns)
	return r.list(ctx, query)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]Blueprint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing blueprints: %w", ErrStorageFailure, err)
	}
	defer rows.Close()

	blueprints := []Blueprint{}
	for rows.Next() {
		bp, err := scanSQLiteBlueprint(rows.Scan)
		if err != nil {
			return nil, err
		}
		blueprints = append(blueprints, *bp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating blueprint rows: %w", ErrStorageFailure, err)
	}
	return blueprints, nil
}

// AppendPoint appends p to the stored JSON array in a single UPDATE.
func (r *SQLiteRepository) AppendPoint(ctx context.Context, author, name string, p Point) error {
	point, err := encodePoint(p)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE blueprint SET points = json_insert(points, '$[#]', json(?)) WHERE author = ? AND name = ?`,
		point, author, name)
	if err != nil {
		return fmt.Errorf("%w: appending point: %w", ErrStorageFailure, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: reading affected rows: %w", ErrStorageFailure, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, author, name)
	}
	return nil
}

// Ping verifies the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isSQLiteConstraint(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
