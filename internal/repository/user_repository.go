package repository

import (
	"context"
	"strings"

	"github.com/meetspace/room-booking/internal/database"
	"github.com/meetspace/room-booking/internal/model"
	"github.com/meetspace/room-booking/internal/utils"
)

type UserRepo struct{ pool *database.Pool }

func NewUserRepo(p *database.Pool) *UserRepo { return &UserRepo{pool: p} }

// Create hashes the password, inserts the user and returns the stored row.
// The email is normalized to lower case before insertion; a duplicate email
// yields ErrEmailExists (MySQL error 1062).
func (r *UserRepo) Create(ctx context.Context, email string, name *string, password, role string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return model.User{}, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO users (email, name, hashed_password, role) VALUES (?,?,?,?)",
		email, name, hash, role)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	err = db.QueryRowContext(ctx,
		"SELECT id, email, name, role, created_at FROM users WHERE id = ?",
		id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	return u, err
}

// GetByEmail fetches a user by normalized email, including the password
// hash for credential verification. Returns sql.ErrNoRows when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	err = db.QueryRowContext(ctx,
		"SELECT id, email, name, hashed_password, role, created_at FROM users WHERE email = ? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.Name, &u.HashedPassword, &u.Role, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id. Returns sql.ErrNoRows when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	err = db.QueryRowContext(ctx,
		"SELECT id, email, name, role, created_at FROM users WHERE id = ? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	return u, err
}
