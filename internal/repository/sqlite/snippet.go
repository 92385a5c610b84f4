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

var _ repository.SnippetRepository = (*DB)(nil)

const snippetColumns = `s.id, s.owner_id, u.username, s.title, s.code, s.linenos,
	s.language, s.style, s.highlighted, s.created_at, s.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row rowScanner, s *model.Snippet) error {
	return row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Owner,
		&s.Title,
		&s.Code,
		&s.LineNumbers,
		&s.Language,
		&s.Style,
		&s.Highlighted,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

// Create inserts a new snippet, assigning its ID and timestamps.
// The owner must already exist.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()

	now := time.Now().UTC()
	snippet.CreatedAt = now
	snippet.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippets
		   (id, owner_id, title, code, linenos, language, style, highlighted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.OwnerID,
		snippet.Title,
		snippet.Code,
		snippet.LineNumbers,
		snippet.Language,
		snippet.Style,
		snippet.Highlighted,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		if isConstraintError(err) {
			return apperror.ValidationFailed("owner", "snippet owner does not exist")
		}
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	// Owner username is denormalised into the model for responses.
	if err := db.conn.QueryRowContext(ctx,
		`SELECT username FROM users WHERE id = ?`, snippet.OwnerID,
	).Scan(&snippet.Owner); err != nil {
		return fmt.Errorf("sqlite: loading owner of snippet %s: %w", snippet.ID, err)
	}

	return nil
}

// GetByID retrieves a single snippet, including its rendered HTML.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	var snippet model.Snippet

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+`
		 FROM snippets s JOIN users u ON u.id = s.owner_id
		 WHERE s.id = ?`,
		id,
	)
	if err := scanSnippet(row, &snippet); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &snippet, nil
}

// List returns a page of snippets, oldest first. Snippets created in the
// same instant fall back to id order, which xid keeps chronological.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	limit, offset := clampList(opts.Limit, opts.Offset)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+snippetColumns+`
		 FROM snippets s JOIN users u ON u.id = s.owner_id
		 ORDER BY s.created_at ASC, s.id ASC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0, limit)
	for rows.Next() {
		var s model.Snippet
		if err := scanSnippet(rows, &s); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// ListIDsByOwner returns the ids of every snippet the user owns, oldest first.
func (db *DB) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM snippets WHERE owner_id = ? ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets of %s: %w", ownerID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippet ids: %w", err)
	}

	return ids, nil
}

// Update rewrites every mutable column, including the rendered HTML.
// id, owner_id and created_at never change.
func (db *DB) Update(ctx context.Context, snippet *model.Snippet) error {
	snippet.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets
		 SET title = ?, code = ?, linenos = ?, language = ?, style = ?,
		     highlighted = ?, updated_at = ?
		 WHERE id = ?`,
		snippet.Title,
		snippet.Code,
		snippet.LineNumbers,
		snippet.Language,
		snippet.Style,
		snippet.Highlighted,
		snippet.UpdatedAt,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet by its ID.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}
