package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Session struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	CreatedAt string `db:"created_at"`
	ExpiresAt int64  `db:"expires_at"`
}

func (s Session) Expired(at time.Time) bool { return at.Unix() >= s.ExpiresAt }

type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Create(ctx context.Context, id, userID string, expires time.Time) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO sessions(id, user_id, created_at, expires_at) VALUES(?,?,?,?)`),
		id, userID, now(), expires.Unix())
	if err != nil {
		return fmt.Errorf("create session: %w", mapErr(err))
	}
	return nil
}

// Get returns a live session. Expired rows are removed and reported as ErrNotFound.
func (r *SessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s,
		r.db.Rebind(`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id=?`), id)
	if err != nil {
		return nil, mapErr(err)
	}
	if s.Expired(time.Now()) {
		_ = r.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup drops every expired session and returns how many were removed.
func (r *SessionRepo) Cleanup(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`), time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return res.RowsAffected()
}
