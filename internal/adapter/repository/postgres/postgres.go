package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortly/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type urlDB struct {
	ID           int64     `db:"id"`
	ShortCode    string    `db:"short_code"`
	OriginalURL  string    `db:"original_url"`
	RequestCount int64     `db:"request_count"`
	UsedCount    int64     `db:"used_count"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ID:          u.ID,
		ShortCode:   u.ShortCode,
		OriginalURL: u.OriginalURL,
		URLStats: entity.URLStats{
			RequestCount: u.RequestCount,
			UsedCount:    u.UsedCount,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.FindByOriginalURL"
	const query = `SELECT * FROM urls WHERE original_url = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, originalURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.FindByShortCode"
	const query = `SELECT * FROM urls WHERE short_code = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

// CreateIfAbsent inserts url. A violation of either unique constraint
// (short_code or original_url) is reported as entity.ErrConflict.
func (r *URLRepository) CreateIfAbsent(ctx context.Context, url *entity.URL) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.CreateIfAbsent"
	const query = `INSERT INTO urls(short_code, original_url, request_count, used_count)
		VALUES ($1, $2, $3, $4)
		RETURNING *`

	var created urlDB

	err := r.db.GetContext(ctx, &created, query, url.ShortCode, url.OriginalURL, url.RequestCount, url.UsedCount)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrConflict)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return created.toEntity(), nil
}

func (r *URLRepository) IncrementRequestCount(ctx context.Context, originalURL string) error {
	const op = "adapter.repository.postgres.URLRepository.IncrementRequestCount"
	const query = `UPDATE urls SET request_count = request_count + 1, updated_at = NOW() WHERE original_url = $1`

	if _, err := r.db.ExecContext(ctx, query, originalURL); err != nil {
		return fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	return nil
}

func (r *URLRepository) IncrementUsedCount(ctx context.Context, shortCode string) error {
	const op = "adapter.repository.postgres.URLRepository.IncrementUsedCount"
	const query = `UPDATE urls SET used_count = used_count + 1, updated_at = NOW() WHERE short_code = $1`

	if _, err := r.db.ExecContext(ctx, query, shortCode); err != nil {
		return fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	return nil
}
