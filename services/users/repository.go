package main

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository define a interface para operações de banco de dados de usuários
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	// GetUserByLogin aceita username ou email. Retorna (nil, nil) quando não existe.
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	// ExistsByUsernameOrEmail verifica unicidade, ignorando o próprio usuário
	// quando excludeID for não vazio.
	ExistsByUsernameOrEmail(ctx context.Context, username, email, excludeID string) (bool, error)
	UpdateProfile(ctx context.Context, userID, username, email string) (*User, error)
}

// PostgresUserRepository implementa UserRepository usando PostgreSQL
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository cria uma nova instância de PostgresUserRepository
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

const userColumns = "id, username, email, password_hash, role, is_active, created_at"

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser insere um novo usuário
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Username, user.Email, user.PasswordHash,
		user.Role, user.IsActive, user.CreatedAt)
	return err
}

// GetUserByID busca um usuário pelo ID
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, userID string) (*User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByLogin busca por username ou email
func (r *PostgresUserRepository) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1 OR email = $1", login))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ExistsByUsernameOrEmail verifica se username ou email já estão em uso
func (r *PostgresUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE (username = $1 OR email = $2) AND id <> $3
		)
	`, username, email, excludeID).Scan(&exists)
	return exists, err
}

// UpdateProfile atualiza username e email do usuário
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, userID, username, email string) (*User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET username = $2, email = $3
		WHERE id = $1
		RETURNING `+userColumns,
		userID, username, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
