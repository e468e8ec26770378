package types

import "time"

// MaxNoteLength is the maximum number of characters a note may hold.
const MaxNoteLength = 2000

// Note is a piece of text owned by exactly one user.
type Note struct {
	// ID is the unique identifier of the note.
	ID int `json:"id" db:"id"`

	// Text is the note body. Empty text is allowed.
	Text string `json:"text" db:"text"`

	// UserID references the owner. It is set at creation and never changes.
	UserID int `json:"user_id" db:"user_id"`

	// CreatedAt is set by the store when the note is inserted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
