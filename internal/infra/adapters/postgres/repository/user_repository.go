package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qrave1/RoomMeet/internal/domain/models"
	domainrepo "github.com/qrave1/RoomMeet/internal/domain/repository"
)

type userRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) domainrepo.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *models.User) error {
	query := "INSERT INTO users (id, username, password, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)"

	res, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Password, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", mapError(err))
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create user rows affected: %w", err)
	}

	if aff == 0 {
		return errors.New("create user: no rows affected")
	}

	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User

	query := "SELECT id, username, password, created_at, updated_at FROM users WHERE id = $1"

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, mapError(err)
	}

	return &user, nil
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	query := "SELECT id, username, password, created_at, updated_at FROM users WHERE username = $1"

	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, mapError(err)
	}

	return &user, nil
}
