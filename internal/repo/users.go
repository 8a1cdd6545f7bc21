package repo

import (
	"context"
	"database/sql"
	"fmt"

	"larplaner/internal/wire"
)

func (r Repo) ListUserEmails(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT email FROM users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r Repo) GetUser(ctx context.Context, id string) (wire.User, error) {
	var u wire.User
	var admin int
	err := r.DB.QueryRowContext(ctx, `SELECT id,email,name,admin FROM users WHERE id=?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &admin)
	if err == sql.ErrNoRows {
		return wire.User{}, ErrNotFound
	}
	if err != nil {
		return wire.User{}, err
	}
	u.Admin = admin != 0
	return u, nil
}

// UpsertUser registers a user, keyed by id. The dev server seeds users from
// the emails it sees on event role assignments and from sign-ins.
func (r Repo) UpsertUser(ctx context.Context, u wire.User) error {
	admin := 0
	if u.Admin {
		admin = 1
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users(id,email,name,admin,created_at) VALUES (?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET email=excluded.email, name=excluded.name, admin=excluded.admin`,
		u.ID, u.Email, u.Name, admin, now())
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
