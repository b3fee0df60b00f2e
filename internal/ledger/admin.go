package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminSession identifies an authenticated operator.
type AdminSession struct {
	AdminID string
	Email   string
}

// EnsureAdmin upserts the operator account configured through the
// environment, hashing the password with bcrypt.
func (s *Store) EnsureAdmin(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash)
		VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash
	`, uuid.NewString(), email, string(hash))
	if err != nil {
		return fmt.Errorf("upserting admin: %w", err)
	}
	return nil
}

// AdminByEmail returns the admin id and password hash for a login attempt.
func (s *Store) AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admins WHERE email = ?
	`, email).Scan(&adminID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("looking up admin: %w", err)
	}
	return adminID, passwordHash, nil
}

// CreateAdminSession opens a session for an authenticated admin.
func (s *Store) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	sessionID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, admin_id) VALUES (?, ?)
	`, sessionID, adminID)
	if err != nil {
		return "", fmt.Errorf("creating admin session: %w", err)
	}
	return sessionID, nil
}

// DeleteAdminSession logs an admin out.
func (s *Store) DeleteAdminSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM admin_sessions WHERE id = ?
	`, sessionID); err != nil {
		return fmt.Errorf("deleting admin session: %w", err)
	}
	return nil
}

// AdminFromSession resolves a session cookie to the admin holding it.
func (s *Store) AdminFromSession(ctx context.Context, sessionID string) (AdminSession, error) {
	var sess AdminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return AdminSession{}, ErrNotFound
	}
	if err != nil {
		return AdminSession{}, fmt.Errorf("looking up admin session: %w", err)
	}
	return sess, nil
}
