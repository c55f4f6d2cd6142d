package postgres

import (
	"context"
	"errors"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RefreshTokenRepo struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepo(db *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

func (r *RefreshTokenRepo) Save(ctx context.Context, record *models.RefreshTokenRecord) error {
	if record == nil {
		return errors.New("refresh token record is nil")
	}

	const q = `
		INSERT INTO refresh_tokens (id, subject_id, subject_kind, token_hash, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, false, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			token_hash = EXCLUDED.token_hash,
			expires_at = EXCLUDED.expires_at,
			revoked = false,
			last_used_at = NULL;
	`

	_, err := TxorDB(ctx, r.db).Exec(ctx, q,
		record.ID,
		record.SubjectID,
		record.SubjectKind,
		record.TokenHash,
		record.ExpiresAt,
		record.CreatedAt,
	)
	return err
}

// Get returns nil without error when the record does not exist.
func (r *RefreshTokenRepo) Get(ctx context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error) {
	const q = `
		SELECT id, subject_id, subject_kind, token_hash, expires_at, revoked, created_at, last_used_at
		FROM refresh_tokens
		WHERE id = $1;
	`

	var (
		rec      models.RefreshTokenRecord
		lastUsed *time.Time
	)

	err := TxorDB(ctx, r.db).QueryRow(ctx, q, tokenID).Scan(
		&rec.ID,
		&rec.SubjectID,
		&rec.SubjectKind,
		&rec.TokenHash,
		&rec.ExpiresAt,
		&rec.Revoked,
		&rec.CreatedAt,
		&lastUsed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if lastUsed != nil {
		ts := lastUsed.UTC()
		rec.LastUsed = &ts
	}

	return &rec, nil
}

// MarkUsed revokes the record, blacklisting the token.
func (r *RefreshTokenRepo) MarkUsed(ctx context.Context, tokenID uuid.UUID) error {
	const q = `
		UPDATE refresh_tokens
		SET revoked = true,
		    last_used_at = $2
		WHERE id = $1;
	`

	_, err := TxorDB(ctx, r.db).Exec(ctx, q, tokenID, time.Now().UTC())
	return err
}

// RevokeAllForSubject blacklists every live refresh token of a subject
// (used at logout).
func (r *RefreshTokenRepo) RevokeAllForSubject(ctx context.Context, subjectID uuid.UUID) error {
	const q = `
		UPDATE refresh_tokens
		SET revoked = true,
		    last_used_at = $2
		WHERE subject_id = $1 AND revoked = false;
	`

	_, err := TxorDB(ctx, r.db).Exec(ctx, q, subjectID, time.Now().UTC())
	return err
}
