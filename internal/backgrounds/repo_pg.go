package backgrounds

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const pgColumns = `id, name, type, src, src_public_id, style, thumbnail, thumbnail_public_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBackground(row rowScanner) (Background, error) {
	var bg Background
	var typ string
	var src, srcHandle, style, thumb, thumbHandle sql.NullString
	if err := row.Scan(
		&bg.ID,
		&bg.Name,
		&typ,
		&src,
		&srcHandle,
		&style,
		&thumb,
		&thumbHandle,
		&bg.CreatedAt,
		&bg.UpdatedAt,
	); err != nil {
		return Background{}, err
	}
	bg.Type = Type(typ)
	bg.Src = src.String
	bg.SrcHandle = srcHandle.String
	bg.Style = style.String
	bg.Thumbnail = thumb.String
	bg.ThumbnailHandle = thumbHandle.String
	return bg, nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ids that are not UUIDs can never match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// FindByID fetches a background by id.
func (r *PGRepo) FindByID(ctx context.Context, id string) (Background, error) {
	if !validID(id) {
		return Background{}, ErrNotFound
	}
	const query = `SELECT ` + pgColumns + ` FROM backgrounds WHERE id = $1`
	bg, err := scanBackground(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return Background{}, notFound(err)
	}
	return bg, nil
}

// FindAll lists every background in insertion order.
func (r *PGRepo) FindAll(ctx context.Context) ([]Background, error) {
	const query = `SELECT ` + pgColumns + ` FROM backgrounds ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Background{}
	for rows.Next() {
		bg, err := scanBackground(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bg)
	}
	return out, rows.Err()
}

// Insert creates a background; the database assigns id and timestamps.
func (r *PGRepo) Insert(ctx context.Context, bg Background) (Background, error) {
	const query = `
INSERT INTO backgrounds (
    name,
    type,
    src,
    src_public_id,
    style,
    thumbnail,
    thumbnail_public_id
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + pgColumns

	return scanBackground(r.DB.QueryRowContext(
		ctx,
		query,
		bg.Name,
		string(bg.Type),
		nullable(bg.Src),
		nullable(bg.SrcHandle),
		nullable(bg.Style),
		nullable(bg.Thumbnail),
		nullable(bg.ThumbnailHandle),
	))
}

// ReplaceByID overwrites every mutable column of an existing background.
func (r *PGRepo) ReplaceByID(ctx context.Context, id string, bg Background) (Background, error) {
	if !validID(id) {
		return Background{}, ErrNotFound
	}
	const query = `
UPDATE backgrounds
SET name = $2,
    type = $3,
    src = $4,
    src_public_id = $5,
    style = $6,
    thumbnail = $7,
    thumbnail_public_id = $8,
    updated_at = now()
WHERE id = $1
RETURNING ` + pgColumns

	out, err := scanBackground(r.DB.QueryRowContext(
		ctx,
		query,
		id,
		bg.Name,
		string(bg.Type),
		nullable(bg.Src),
		nullable(bg.SrcHandle),
		nullable(bg.Style),
		nullable(bg.Thumbnail),
		nullable(bg.ThumbnailHandle),
	))
	if err != nil {
		return Background{}, notFound(err)
	}
	return out, nil
}

// DeleteByID deletes and returns the background in one statement.
func (r *PGRepo) DeleteByID(ctx context.Context, id string) (Background, error) {
	if !validID(id) {
		return Background{}, ErrNotFound
	}
	const query = `DELETE FROM backgrounds WHERE id = $1 RETURNING ` + pgColumns
	bg, err := scanBackground(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return Background{}, notFound(err)
	}
	return bg, nil
}

var _ Repo = (*PGRepo)(nil)
