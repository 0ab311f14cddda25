package repos

import (
	"context"
	"fmt"
	"strings"

	"immoportal/internal/domain"

	"github.com/jmoiron/sqlx"
)

// InboxRepo stores contact form messages and newsletter sign-ups.
type InboxRepo struct{ db *sqlx.DB }

func NewInboxRepo(db *sqlx.DB) *InboxRepo { return &InboxRepo{db: db} }

func (r *InboxRepo) SaveContact(ctx context.Context, m *domain.ContactMessage) error {
	m.CreatedAt = now()
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO contact_messages(id, name, email, phone, subject, message, created_at)
	  VALUES(:id, :name, :email, :phone, :subject, :message, :created_at)`, m)
	if err != nil {
		return fmt.Errorf("save contact message: %w", err)
	}
	return nil
}

// ListContacts returns the newest messages first; limit <= 0 means all.
func (r *InboxRepo) ListContacts(ctx context.Context, limit int) ([]domain.ContactMessage, error) {
	q := `SELECT id, name, email, phone, subject, message, created_at FROM contact_messages ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	out := []domain.ContactMessage{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return out, nil
}

// Subscribe records the address. It reports false when it was already subscribed.
func (r *InboxRepo) Subscribe(ctx context.Context, email string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO newsletter_subscribers(email, created_at) VALUES(?, ?)
	  ON CONFLICT(email) DO NOTHING`), strings.ToLower(strings.TrimSpace(email)), now())
	if err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *InboxRepo) CountSubscribers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM newsletter_subscribers`); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}
