package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/repository"
	"github.com/yukikurage/devtrack/internal/utils"
)

func TestEntryService(t *testing.T) {
	w := newWorld(t)
	service := NewEntryService(w.dir, repository.NewEntryRepository(w.db), w.eng, w.log)
	ctx := context.Background()

	entry, err := service.Create(ctx, w.actor(w.member), EntryInput{Title: "GopherCon", Hours: 16})
	require.NoError(t, err)
	assert.Equal(t, w.member.ID, entry.UserID)

	_, err = service.Create(ctx, w.actor(w.member), EntryInput{Title: "", Hours: 1})
	assert.ErrorIs(t, err, ErrTitleRequired)
	_, err = service.Create(ctx, w.actor(w.member), EntryInput{Title: "Negative", Hours: -1})
	assert.ErrorIs(t, err, ErrInvalidHours)

	doc, err := service.AttachDocument(ctx, w.actor(w.member), entry.ID, DocumentInput{Filename: "ticket.pdf", ContentType: "application/pdf", SizeBytes: 2048})
	require.NoError(t, err)
	assert.Contains(t, doc.StorageKey, "entries/")

	_, err = service.AttachDocument(ctx, w.actor(w.outsider), entry.ID, DocumentInput{Filename: "steal.pdf"})
	var notFound *apierrors.ResourceNotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "entry", notFound.Resource)

	entries, total, err := service.List(ctx, w.actor(w.member), utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Documents, 1)

	entries, total, err = service.List(ctx, w.actor(w.outsider), utils.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)
}
