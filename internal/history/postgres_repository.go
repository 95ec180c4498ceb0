package history

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL route record repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert adds a record.
func (r *PostgresRepository) Insert(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO route_records (
			id, profile_name,
			origin_lat, origin_lon, destination_lat, destination_lon,
			waypoints, distance_meters, duration_seconds,
			status, error_kind, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.ProfileName,
		rec.Origin.Lat, rec.Origin.Lon, rec.Destination.Lat, rec.Destination.Lon,
		rec.Waypoints, rec.DistanceMeters, rec.DurationSeconds,
		rec.Status, rec.ErrorKind, rec.CreatedAt,
	)
	return err
}

// Get retrieves a record by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Record, error) {
	query := `
		SELECT
			id, profile_name,
			origin_lat, origin_lon, destination_lat, destination_lon,
			waypoints, distance_meters, duration_seconds,
			status, error_kind, created_at
		FROM route_records
		WHERE id = $1
	`

	var rec Record
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.ProfileName,
		&rec.Origin.Lat, &rec.Origin.Lon, &rec.Destination.Lat, &rec.Destination.Lon,
		&rec.Waypoints, &rec.DistanceMeters, &rec.DurationSeconds,
		&rec.Status, &rec.ErrorKind, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// List returns records newest first.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := normalizeLimit(opts.Limit)

	query := `
		SELECT
			id, profile_name,
			origin_lat, origin_lon, destination_lat, destination_lon,
			waypoints, distance_meters, duration_seconds,
			status, error_kind, created_at
		FROM route_records
		WHERE ($1 = '' OR profile_name = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	// Fetch one extra row to detect a further page.
	rows, err := r.pool.Query(ctx, query, opts.Profile, limit+1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.ProfileName,
			&rec.Origin.Lat, &rec.Origin.Lon, &rec.Destination.Lat, &rec.Destination.Lon,
			&rec.Waypoints, &rec.DistanceMeters, &rec.DurationSeconds,
			&rec.Status, &rec.ErrorKind, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Records: records}
	if len(records) > limit {
		result.Records = records[:limit]
		result.HasMore = true
	}
	return result, nil
}
