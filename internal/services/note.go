package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/simplenotes/notes/internal/store"
	"github.com/simplenotes/notes/types"
	"github.com/sirupsen/logrus"
)

const maxNoteLength = types.MaxNoteLength

// NoteRepository defines persistence operations for notes.
type NoteRepository interface {
	ListByUser(ctx context.Context, userID int) ([]types.Note, error)
	Get(ctx context.Context, id int) (types.Note, error)
	Create(ctx context.Context, note types.Note) (types.Note, error)
	Delete(ctx context.Context, id int) error
}

// NoteService encapsulates note use-cases. Every call takes the acting user
// explicitly.
type NoteService struct {
	repo NoteRepository
	log  logrus.FieldLogger
}

func NewNoteService(repo NoteRepository, log logrus.FieldLogger) *NoteService {
	return &NoteService{
		repo: repo,
		log:  log.WithField("component", "notes"),
	}
}

func (s *NoteService) Add(ctx context.Context, user types.User, text string) (types.Note, error) {
	if !storableText(text) {
		return types.Note{}, fmt.Errorf("%w: note contains invalid characters", ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > maxNoteLength {
		return types.Note{}, ErrNoteTooLong
	}
	note, err := s.repo.Create(ctx, types.Note{Text: text, UserID: user.ID})
	if err != nil {
		return types.Note{}, err
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "note_id": note.ID}).Debug("note created")
	return note, nil
}

// List returns the user's notes in the order they were created.
func (s *NoteService) List(ctx context.Context, user types.User) ([]types.Note, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

func (s *NoteService) Remove(ctx context.Context, user types.User, noteID int) error {
	if _, err := s.owned(ctx, user, noteID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, noteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "note_id": noteID}).Debug("note deleted")
	return nil
}

// Update checks that the note exists and belongs to user. Editing is not
// supported, so the note is returned unchanged.
func (s *NoteService) Update(ctx context.Context, user types.User, noteID int) (types.Note, error) {
	return s.owned(ctx, user, noteID)
}

func (s *NoteService) owned(ctx context.Context, user types.User, noteID int) (types.Note, error) {
	note, err := s.repo.Get(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.WithFields(logrus.Fields{"user_id": user.ID, "note_id": noteID}).Warn("note not found")
			return types.Note{}, ErrNoteNotFound
		}
		return types.Note{}, fmt.Errorf("get note: %w", err)
	}
	if note.UserID != user.ID {
		s.log.WithFields(logrus.Fields{"user_id": user.ID, "note_id": noteID}).Warn("not allowed")
		return types.Note{}, ErrForbidden
	}
	return note, nil
}

// storableText reports whether postgres text columns accept s: valid UTF-8
// without NUL bytes.
func storableText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}
