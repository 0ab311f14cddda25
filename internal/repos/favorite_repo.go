package repos

import (
	"context"
	"fmt"

	"immoportal/internal/domain"

	"github.com/jmoiron/sqlx"
)

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add is idempotent.
func (r *FavoriteRepo) Add(ctx context.Context, userID, propertyID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO favorites(user_id, property_id, created_at)
	  VALUES(?, ?, ?)
	  ON CONFLICT(user_id, property_id) DO NOTHING
	`), userID, propertyID, now())
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepo) Remove(ctx context.Context, userID, propertyID string) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM favorites WHERE user_id=? AND property_id=?`), userID, propertyID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepo) Has(ctx context.Context, userID, propertyID string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		r.db.Rebind(`SELECT COUNT(*) FROM favorites WHERE user_id=? AND property_id=?`), userID, propertyID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return n > 0, nil
}

// List returns the user's favorite listings, most recently saved first.
func (r *FavoriteRepo) List(ctx context.Context, userID string) ([]domain.Property, error) {
	out := []domain.Property{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
	  SELECT p.id, p.title, p.description, p.type, p.price, p.surface, p.bedrooms, p.bathrooms,
	         p.location, p.district, p.region, p.status, p.images_json, p.agent_id, p.created_at, p.updated_at
	  FROM favorites f
	  JOIN properties p ON p.id = f.property_id
	  WHERE f.user_id = ?
	  ORDER BY f.created_at DESC, p.title
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return out, nil
}
