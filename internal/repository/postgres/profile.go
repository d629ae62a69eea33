package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	query := `
		INSERT INTO user_profiles (id, clinic_id, auth_user_id, role, name, email,
			specialization, created_at, updated_at)
		VALUES (:id, :clinic_id, :auth_user_id, :role, :name, :email,
			:specialization, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByAuthUserID(ctx context.Context, authUserID uuid.UUID) (*model.UserProfile, error) {
	query := `SELECT * FROM user_profiles WHERE auth_user_id = $1`
	var profile model.UserProfile
	err := r.db.GetContext(ctx, &profile, query, authUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.UserProfile, error) {
	query := `SELECT * FROM user_profiles WHERE clinic_id = $1 ORDER BY created_at ASC`
	profiles := []*model.UserProfile{}
	if err := r.db.SelectContext(ctx, &profiles, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

type authUserRepository struct {
	db *sqlx.DB
}

func NewAuthUserRepository(db *sqlx.DB) repository.AuthUserRepository {
	return &authUserRepository{db: db}
}

func (r *authUserRepository) Create(ctx context.Context, id uuid.UUID, email, passwordHash string) error {
	query := `INSERT INTO auth_users (id, email, password_hash, created_at) VALUES ($1, $2, $3, NOW())`
	if _, err := r.db.ExecContext(ctx, query, id, email, passwordHash); err != nil {
		return fmt.Errorf("failed to create auth user: %w", err)
	}
	return nil
}

func (r *authUserRepository) GetByEmail(ctx context.Context, email string) (uuid.UUID, string, error) {
	query := `SELECT id, password_hash FROM auth_users WHERE email = $1`
	var row struct {
		ID           uuid.UUID `db:"id"`
		PasswordHash string    `db:"password_hash"`
	}
	err := r.db.GetContext(ctx, &row, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, "", repository.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to get auth user: %w", err)
	}
	return row.ID, row.PasswordHash, nil
}
