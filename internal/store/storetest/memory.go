// Package storetest provides in-memory repositories that honor the same
// contracts as the postgres-backed ones, including unique constraints.
package storetest

import (
	"context"
	"sync"
	"time"

	"github.com/simplenotes/notes/internal/store"
	"github.com/simplenotes/notes/types"
)

// Users is an in-memory users table.
type Users struct {
	mu     sync.Mutex
	nextID int
	rows   []types.User
}

func NewUsers() *Users {
	return &Users{nextID: 1}
}

func (u *Users) GetByID(ctx context.Context, id int) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, row := range u.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (u *Users) FindByUsernameOrEmail(ctx context.Context, username, email string) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, row := range u.rows {
		if row.Username == username || row.Email == email {
			return row, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (u *Users) Create(ctx context.Context, user types.User) (types.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, row := range u.rows {
		if row.Username == user.Username || row.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = u.nextID
	user.CreatedAt = time.Now()
	u.nextID++
	u.rows = append(u.rows, user)
	return user, nil
}

// Delete removes a user row. The application never does this; tests use it
// to simulate external changes.
func (u *Users) Delete(id int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, row := range u.rows {
		if row.ID == id {
			u.rows = append(u.rows[:i], u.rows[i+1:]...)
			return
		}
	}
}

// Notes is an in-memory notes table.
type Notes struct {
	mu     sync.Mutex
	nextID int
	rows   []types.Note
}

func NewNotes() *Notes {
	return &Notes{nextID: 1}
}

func (n *Notes) ListByUser(ctx context.Context, userID int) ([]types.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notes := make([]types.Note, 0)
	for _, row := range n.rows {
		if row.UserID == userID {
			notes = append(notes, row)
		}
	}
	return notes, nil
}

func (n *Notes) Get(ctx context.Context, id int) (types.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, row := range n.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return types.Note{}, store.ErrNotFound
}

func (n *Notes) Create(ctx context.Context, note types.Note) (types.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	note.ID = n.nextID
	note.CreatedAt = time.Now()
	n.nextID++
	n.rows = append(n.rows, note)
	return note, nil
}

func (n *Notes) Delete(ctx context.Context, id int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, row := range n.rows {
		if row.ID == id {
			n.rows = append(n.rows[:i], n.rows[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Len reports the number of stored notes across all users.
func (n *Notes) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.rows)
}
