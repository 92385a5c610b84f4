package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snippets/internal/apperror"
	"github.com/sakif/snippets/internal/model"
	"github.com/sakif/snippets/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, password_hash, github_id, email, avatar_url, created_at, updated_at`

func scanUser(row rowScanner, u *model.User) error {
	var githubID sql.NullInt64
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&githubID,
		&u.Email,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return err
	}
	u.GitHubID = githubID.Int64
	return nil
}

// nullGitHubID stores "no GitHub account" as NULL so the UNIQUE index
// only applies to real GitHub ids.
func nullGitHubID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// CreateUser inserts a new account. A taken username yields apperror.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		nullGitHubID(user.GitHubID),
		user.Email,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isConstraintError(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// UpsertGitHubUser creates the account on first GitHub login and refreshes
// email/avatar on later ones. The internal ID and username of an existing
// account are kept.
func (db *DB) UpsertGitHubUser(ctx context.Context, user *model.User) error {
	if user.GitHubID == 0 {
		return apperror.ValidationFailed("githubId", "GitHub id is required")
	}

	var existing model.User
	err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE github_id = ?`, user.GitHubID,
	), &existing)

	switch {
	case err == sql.ErrNoRows:
		return db.CreateUser(ctx, user)
	case err != nil:
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	existing.Email = user.Email
	existing.AvatarURL = user.AvatarURL
	existing.UpdatedAt = time.Now().UTC()

	_, err = db.conn.ExecContext(ctx,
		`UPDATE users SET email = ?, avatar_url = ?, updated_at = ? WHERE id = ?`,
		existing.Email,
		existing.AvatarURL,
		existing.UpdatedAt,
		existing.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", existing.ID, err)
	}

	*user = existing
	return nil
}

// GetUserByID retrieves a user by their internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	), &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return &u, nil
}

// GetUserByUsername is used by password login.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	), &u)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", username, err)
	}
	return &u, nil
}

// ListUsers returns a page of users, oldest account first.
func (db *DB) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 ORDER BY created_at ASC, id ASC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// DeleteUser removes the account; ON DELETE CASCADE removes its snippets.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
