package repos

import (
	"context"
	"fmt"

	"immoportal/internal/domain"

	"github.com/jmoiron/sqlx"
)

const propertyCols = `id, title, description, type, price, surface, bedrooms, bathrooms,
	location, district, region, status, images_json, agent_id, created_at, updated_at`

const insertPropertySQL = `INSERT INTO properties(` + propertyCols + `)
VALUES(:id, :title, :description, :type, :price, :surface, :bedrooms, :bathrooms,
	:location, :district, :region, :status, :images_json, :agent_id, :created_at, :updated_at)`

// ListOptions narrows a listing select. Empty fields are ignored.
type ListOptions struct {
	AgentID string
	Status  domain.PropertyStatus
	Limit   int
}

type PropertyRepo struct{ db *sqlx.DB }

func NewPropertyRepo(db *sqlx.DB) *PropertyRepo { return &PropertyRepo{db: db} }

// List returns listings newest first.
func (r *PropertyRepo) List(ctx context.Context, opt ListOptions) ([]domain.Property, error) {
	where := `1=1`
	args := []any{}
	if opt.AgentID != "" {
		where += ` AND agent_id = ?`
		args = append(args, opt.AgentID)
	}
	if opt.Status != "" {
		where += ` AND status = ?`
		args = append(args, opt.Status)
	}
	q := `SELECT ` + propertyCols + ` FROM properties WHERE ` + where + ` ORDER BY created_at DESC, id`
	if opt.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opt.Limit)
	}

	out := []domain.Property{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return out, nil
}

func (r *PropertyRepo) Get(ctx context.Context, id string) (*domain.Property, error) {
	var p domain.Property
	err := r.db.GetContext(ctx, &p, r.db.Rebind(`SELECT `+propertyCols+` FROM properties WHERE id=?`), id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// Insert stores p. ID must already be set; timestamps are filled in.
func (r *PropertyRepo) Insert(ctx context.Context, p *domain.Property) error {
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if p.ImagesJSON == "" {
		p.ImagesJSON = "[]"
	}
	if _, err := r.db.NamedExecContext(ctx, insertPropertySQL, p); err != nil {
		if e := mapErr(err); e == ErrConflict {
			return e
		}
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// Update overwrites every editable column. Ownership and creation time are kept.
func (r *PropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	p.UpdatedAt = now()
	if p.ImagesJSON == "" {
		p.ImagesJSON = "[]"
	}
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE properties SET
		  title=:title, description=:description, type=:type, price=:price, surface=:surface,
		  bedrooms=:bedrooms, bathrooms=:bathrooms, location=:location, district=:district,
		  region=:region, status=:status, images_json=:images_json, updated_at=:updated_at
		WHERE id=:id`, p)
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	return requireOne(res)
}

// Delete removes the listing and any favorites pointing at it.
func (r *PropertyRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM favorites WHERE property_id=?`), id); err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM properties WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if err := requireOne(res); err != nil {
		return err
	}
	return tx.Commit()
}
