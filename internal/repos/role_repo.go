package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type RoleRepo struct{ DB *sqlx.DB }

func NewRoleRepo(db *sqlx.DB) *RoleRepo { return &RoleRepo{DB: db} }

// Get returns the user's role, defaulting to guest when none is stored.
func (r *RoleRepo) Get(userID int64) (string, error) {
	var role string
	err := r.DB.Get(&role, `SELECT role FROM user_roles WHERE user_id=?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "guest", nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// Upsert sets the user's role. Re-setting the same role is a no-op.
func (r *RoleRepo) Upsert(userID int64, role string) (*domain.UserRole, error) {
	_, err := r.DB.Exec(`INSERT INTO user_roles(user_id, role) VALUES(?,?)
	  ON CONFLICT(user_id) DO UPDATE SET role=excluded.role`, userID, role)
	if err != nil {
		return nil, err
	}
	var ur domain.UserRole
	if err := r.DB.Get(&ur, `SELECT id, user_id, role FROM user_roles WHERE user_id=?`, userID); err != nil {
		return nil, err
	}
	return &ur, nil
}
