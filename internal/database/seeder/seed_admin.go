package seeder

import (
	"context"
	"fmt"
	"strings"

	"careerpath/internal/database"

	"golang.org/x/crypto/bcrypt"
)

// AdminSeeder creates an administrator when both credentials are set. An
// existing user with the same email is promoted rather than overwritten.
type AdminSeeder struct {
	Email    string
	Password string
}

func (AdminSeeder) Name() string { return "admin" }

func (s AdminSeeder) Run(ctx context.Context, db database.DB) error {
	email := strings.ToLower(strings.TrimSpace(s.Email))
	if email == "" || s.Password == "" {
		return nil
	}
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "is_admin"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO users (id, email, name, password_hash, is_admin)
			 VALUES (gen_random_uuid(), $1, 'Administrator', $2, TRUE)
			 ON CONFLICT (lower(email)) DO NOTHING`,
			email, string(hash),
		)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE users SET is_admin = TRUE, updated_at = now() WHERE lower(email) = $1`, email)
		return err
	})
}
