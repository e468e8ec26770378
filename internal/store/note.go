package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simplenotes/notes/types"
)

// NoteRepository handles persistence for notes.
type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// ListByUser returns the user's notes in insertion order.
func (r *NoteRepository) ListByUser(ctx context.Context, userID int) ([]types.Note, error) {
	const query = `
		SELECT id, text, user_id, created_at
		FROM notes
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]types.Note, 0)
	for rows.Next() {
		var note types.Note
		if err := rows.Scan(
			&note.ID,
			&note.Text,
			&note.UserID,
			&note.CreatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *NoteRepository) Get(ctx context.Context, id int) (types.Note, error) {
	const query = `
		SELECT id, text, user_id, created_at
		FROM notes
		WHERE id = $1`
	var note types.Note
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID,
		&note.Text,
		&note.UserID,
		&note.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Note{}, ErrNotFound
		}
		return types.Note{}, err
	}
	return note, nil
}

func (r *NoteRepository) Create(ctx context.Context, note types.Note) (types.Note, error) {
	const query = `
		INSERT INTO notes (text, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at`
	if err := r.db.QueryRowContext(ctx, query, note.Text, note.UserID).Scan(&note.ID, &note.CreatedAt); err != nil {
		return types.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return note, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM notes WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
