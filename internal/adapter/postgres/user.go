package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	pgdb "fleetmaster/pkg/postgres"
	"fleetmaster/pkg/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) (uuid.UUID, error) {
	const op = "UserRepo.CreateUser"
	query := `
		INSERT INTO users(id, name, email, password_hash, created_at)
		VALUES($1, $2, $3, $4, $5)`

	id := uuid.New()
	now := time.Now().UTC()

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		id,
		user.Name,
		user.Email,
		user.GetPassword(),
		now,
	); err != nil {
		// Concurrent registration with the same email slips past the
		// pre-insert existence check.
		if pgdb.IsUniqueViolation(err) {
			return uuid.UUID{}, fmt.Errorf("%s: %w", op, types.ErrDuplicateEmail)
		}
		return uuid.UUID{}, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// GetUserByEmail returns nil without error when no user exists.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "UserRepo.GetUserByEmail"
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1`

	return r.scanUser(ctx, op, query, email)
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "UserRepo.GetUserByID"
	query := `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(ctx, op, query, userID)
}

func (r *UserRepo) scanUser(ctx context.Context, op, query string, arg any) (*models.User, error) {
	var (
		user     models.User
		password string
		updated  *time.Time
	)

	err := TxorDB(ctx, r.db).QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&password,
		&user.CreatedAt,
		&updated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user.SetPassword(password)
	if updated != nil {
		user.UpdatedAt = *updated
	}

	return &user, nil
}

func (r *UserRepo) CreateProfile(ctx context.Context, profile *models.Profile) (uuid.UUID, error) {
	const op = "UserRepo.CreateProfile"
	query := `
		INSERT INTO profiles(id, user_id, company, created_at)
		VALUES($1, $2, $3, $4)`

	id := uuid.New()

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		id,
		profile.UserID,
		profile.Company,
		time.Now().UTC(),
	); err != nil {
		return uuid.UUID{}, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// GetProfileByUserID returns nil without error when the user has no profile yet.
func (r *UserRepo) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "UserRepo.GetProfileByUserID"
	query := `
		SELECT id, user_id, company, created_at
		FROM profiles
		WHERE user_id = $1`

	var profile models.Profile
	err := TxorDB(ctx, r.db).QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Company,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &profile, nil
}
