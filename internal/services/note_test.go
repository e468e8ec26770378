package services

import (
	"context"
	"strings"
	"testing"

	"github.com/simplenotes/notes/internal/store/storetest"
	"github.com/simplenotes/notes/types"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = types.User{ID: 1, Username: "alice"}
	bob   = types.User{ID: 2, Username: "bob"}
)

func newNoteService(t *testing.T) (*NoteService, *storetest.Notes) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	notes := storetest.NewNotes()
	return NewNoteService(notes, logger), notes
}

func TestNoteService_AddAndListInOrder(t *testing.T) {
	svc, _ := newNoteService(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		note, err := svc.Add(ctx, alice, text)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, note.UserID)
		assert.False(t, note.CreatedAt.IsZero())
	}

	notes, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "first", notes[0].Text)
	assert.Equal(t, "second", notes[1].Text)
	assert.Equal(t, "third", notes[2].Text)
}

func TestNoteService_AddEmptyText(t *testing.T) {
	svc, _ := newNoteService(t)

	note, err := svc.Add(context.Background(), alice, "")
	require.NoError(t, err)
	assert.Empty(t, note.Text)
}

func TestNoteService_AddLengthBound(t *testing.T) {
	svc, notes := newNoteService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, alice, strings.Repeat("a", types.MaxNoteLength))
	require.NoError(t, err)

	// Multi-byte characters count once each.
	_, err = svc.Add(ctx, alice, strings.Repeat("é", types.MaxNoteLength))
	require.NoError(t, err)

	_, err = svc.Add(ctx, alice, strings.Repeat("a", types.MaxNoteLength+1))
	assert.ErrorIs(t, err, ErrNoteTooLong)
	assert.Equal(t, 2, notes.Len())
}

func TestNoteService_AddRejectsUnstorableText(t *testing.T) {
	svc, notes := newNoteService(t)

	for _, text := range []string{"a\x00b", "bad \xff byte"} {
		_, err := svc.Add(context.Background(), alice, text)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Zero(t, notes.Len())
}

func TestNoteService_OwnershipIsolation(t *testing.T) {
	svc, _ := newNoteService(t)
	ctx := context.Background()

	note, err := svc.Add(ctx, alice, "private")
	require.NoError(t, err)

	bobNotes, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobNotes)

	assert.ErrorIs(t, svc.Remove(ctx, bob, note.ID), ErrForbidden)

	aliceNotes, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, aliceNotes, 1)
	assert.Equal(t, note.ID, aliceNotes[0].ID)
}

func TestNoteService_Remove(t *testing.T) {
	svc, _ := newNoteService(t)
	ctx := context.Background()

	keep, err := svc.Add(ctx, alice, "keep")
	require.NoError(t, err)
	drop, err := svc.Add(ctx, alice, "drop")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, alice, drop.ID))

	notes, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, keep.ID, notes[0].ID)
}

func TestNoteService_RemoveMissing(t *testing.T) {
	svc, _ := newNoteService(t)
	ctx := context.Background()

	other, err := svc.Add(ctx, alice, "other")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, alice, 999), ErrNoteNotFound)

	notes, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, other.ID, notes[0].ID)
}

func TestNoteService_UpdateIsNoOp(t *testing.T) {
	svc, _ := newNoteService(t)
	ctx := context.Background()

	note, err := svc.Add(ctx, alice, "unchanged")
	require.NoError(t, err)

	got, err := svc.Update(ctx, alice, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note, got)

	_, err = svc.Update(ctx, bob, note.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, alice, 404)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}
