package repos

import (
	"context"
	"fmt"
	"strings"

	"immoportal/internal/domain"

	"github.com/jmoiron/sqlx"
)

const profileCols = `id, full_name, email, phone, role, password_hash, created_at, updated_at`

const insertProfileSQL = `INSERT INTO profiles(` + profileCols + `)
VALUES(:id, :full_name, :email, :phone, :role, :password_hash, :created_at, :updated_at)`

type ProfileRepo struct{ db *sqlx.DB }

func NewProfileRepo(db *sqlx.DB) *ProfileRepo { return &ProfileRepo{db: db} }

// List returns every profile, newest first.
func (r *ProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	out := []domain.Profile{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+profileCols+` FROM profiles ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

func (r *ProfileRepo) ByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT `+profileCols+` FROM profiles WHERE id=?`), id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *ProfileRepo) ByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.GetContext(ctx, &p,
		r.db.Rebind(`SELECT `+profileCols+` FROM profiles WHERE LOWER(email)=LOWER(?)`), strings.TrimSpace(email))
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// Insert stores p, filling CreatedAt/UpdatedAt. A duplicate email yields ErrConflict.
func (r *ProfileRepo) Insert(ctx context.Context, p *domain.Profile) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if _, err := r.db.NamedExecContext(ctx, insertProfileSQL, p); err != nil {
		if e := mapErr(err); e == ErrConflict {
			return e
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// Update writes name, email, phone and role.
func (r *ProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.UpdatedAt = now()
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE profiles
		SET full_name=:full_name, email=:email, phone=:phone, role=:role, updated_at=:updated_at
		WHERE id=:id`, p)
	if err != nil {
		if e := mapErr(err); e == ErrConflict {
			return e
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return requireOne(res)
}

func (r *ProfileRepo) SetPassword(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE profiles SET password_hash=?, updated_at=? WHERE id=?`), hash, now(), id)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return requireOne(res)
}

// Delete removes the profile together with its sessions and favorites.
// Listings owned by an agent are kept.
func (r *ProfileRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM sessions WHERE user_id=?`), id); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM favorites WHERE user_id=?`), id); err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM profiles WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if err := requireOne(res); err != nil {
		return err
	}
	return tx.Commit()
}

type rowsAffected interface{ RowsAffected() (int64, error) }

func requireOne(res rowsAffected) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
