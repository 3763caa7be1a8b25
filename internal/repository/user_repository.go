package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Sanzai-X/enlistment-service/internal/utils"
)

// User mirrors the 'users' table.  Student accounts carry the student
// number their enlistments belong to; registrar accounts leave it null.
type User struct {
	ID            uint64
	Email         string
	PasswordHash  string
	Role          string
	StudentNumber *int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user and returns its ID.  studentNumber may be nil
// for registrar accounts.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, studentNumber *int, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var sn any
	if studentNumber != nil {
		sn = *studentNumber
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, student_number) VALUES (?,?,?,?)",
		email, hash, role, sn)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx,
		"SELECT id,email,password_hash,role,student_number,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	return r.scanOne(ctx,
		"SELECT id,email,password_hash,role,student_number,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (User, error) {
	var u User
	var sn sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &sn, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if sn.Valid {
		n := int(sn.Int64)
		u.StudentNumber = &n
	}
	return u, err
}
