package blueprint

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool. Points live in a
// JSONB column so appends are a single server-side statement.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Repository backed by the given connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the blueprint table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("%w: creating schema: %w", ErrStorageFailure, err)
	}
	return nil
}

// scanBlueprint scans a single Blueprint from a row.
func scanBlueprint(row pgx.Row) (*Blueprint, error) {
	var (
		bp  Blueprint
		raw []byte
	)
	if err := row.Scan(&bp.Author, &bp.Name, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning blueprint row: %w", ErrStorageFailure, err)
	}

	points, err := decodePoints(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", ErrDataCorruption, bp.Author, bp.Name, err)
	}
	bp.Points = points
	return &bp, nil
}

// Save inserts a new blueprint row.
func (r *PostgresRepository) Save(ctx context.Context, bp *Blueprint) error {
	points, err := encodePoints(bp.Points)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO blueprint (author, name, points) VALUES ($1, $2, $3::jsonb)`,
		bp.Author, bp.Name, points)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, bp.Key())
		}
		return fmt.Errorf("%w: inserting blueprint: %w", ErrStorageFailure, err)
	}
	return nil
}

// Get retrieves a single blueprint by its identity.
func (r *PostgresRepository) Get(ctx context.Context, author, name string) (*Blueprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM blueprint WHERE author = $1 AND name = $2`, allColumns)

	bp, err := scanBlueprint(r.pool.QueryRow(ctx, query, author, name))
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, author, name)
	}
	return bp, err
}

// GetByAuthor retrieves every blueprint owned by author.
func (r *PostgresRepository) GetByAuthor(ctx context.Context, author string) ([]Blueprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM blueprint WHERE author = $1 ORDER BY name ASC`, allColumns)

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
func (r *PostgresRepository) GetAll(ctx context.Context) ([]Blueprint, error) {
	query := fmt.Sprintf(`SELECT %s FROM blueprint ORDER BY author ASC, name ASC`, allColumns)
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Blueprint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing blueprints: %w", ErrStorageFailure, err)
	}
	defer rows.Close()

	blueprints := []Blueprint{}
	for rows.Next() {
		bp, err := scanBlueprint(rows)
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

// AppendPoint concatenates a one-element JSON array onto the stored points.
// The row lock taken by UPDATE serializes concurrent appends.
func (r *PostgresRepository) AppendPoint(ctx context.Context, author, name string, p Point) error {
	tail, err := encodePoints([]Point{p})
	if err != nil {
		return err
	}

	result, err := r.pool.Exec(ctx,
		`UPDATE blueprint SET points = points || $1::jsonb WHERE author = $2 AND name = $3`,
		tail, author, name)
	if err != nil {
		return fmt.Errorf("%w: appending point: %w", ErrStorageFailure, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, author, name)
	}
	return nil
}

// Ping verifies the database connection is alive.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
