package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
)

type UserRepo struct{ db sqlx.ExtContext }

func NewUserRepo(db sqlx.ExtContext) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, email, full_name, password_hash, role, active, COALESCE(created_at,'') AS created_at`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users(email, full_name, password_hash, role, active, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, u.Email, u.FullName, u.Hash, u.Role, u.Active, now())
	if err != nil {
		return unique(err)
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+userCols+` FROM users ORDER BY email`)
	return out, err
}

func (r *UserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET active=? WHERE id=?`, active, id)
	return mustAffect(res, err)
}

func (r *UserRepo) SetRole(ctx context.Context, id int64, role string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role=? WHERE id=?`, role, id)
	return mustAffect(res, err)
}

// Delete removes the user; sessions and the cart go with it by cascade.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	return mustAffect(res, err)
}

func (r *UserRepo) BindSession(ctx context.Context, sid string, userID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

// SessionUser resolves an active user bound to sid.
func (r *UserRepo) SessionUser(ctx context.Context, sid string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `
      SELECT u.id,u.email,u.full_name,u.password_hash,u.role,u.active,COALESCE(u.created_at,'') AS created_at
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=? AND u.active=1`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, sid string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
