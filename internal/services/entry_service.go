package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/devtrack/internal/authz"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
	"github.com/yukikurage/devtrack/internal/utils"
)

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidHours     = errors.New("hours must not be negative")
	ErrFilenameRequired = errors.New("filename is required")
	ErrInvalidSize      = errors.New("size must not be negative")
)

// EntryService manages a user's own development entries.
type EntryService struct {
	guard
	entryRepo repository.EntryRepository
}

// NewEntryService creates a new EntryService.
func NewEntryService(dir repository.Directory, entryRepo repository.EntryRepository, engine *authz.Engine, log *logrus.Logger) *EntryService {
	return &EntryService{guard: newGuard(dir, engine, log), entryRepo: entryRepo}
}

// EntryInput contains the fields of a new entry.
type EntryInput struct {
	Title       string
	Description string
	Hours       float64
	CompletedOn *time.Time
}

// DocumentInput contains the metadata of an uploaded document.
type DocumentInput struct {
	Filename    string
	ContentType string
	SizeBytes   int64
}

// Create records an entry for the actor.
func (s *EntryService) Create(ctx context.Context, actor authz.Actor, input EntryInput) (*models.Entry, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Hours < 0 {
		return nil, ErrInvalidHours
	}
	if err := s.authorize(ctx, actor, authz.ActionManageOwnEntries, authz.NoTarget()); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		UserID:      actor.UserID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Hours:       input.Hours,
		CompletedOn: input.CompletedOn,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, s.failure("create entry", err)
	}
	return entry, nil
}

// List returns the actor's entries, newest first.
func (s *EntryService) List(ctx context.Context, actor authz.Actor, params utils.PaginationParams) ([]models.Entry, int64, error) {
	if err := s.authorize(ctx, actor, authz.ActionManageOwnEntries, authz.NoTarget()); err != nil {
		return nil, 0, err
	}

	entries, total, err := s.entryRepo.ListByUser(ctx, actor.UserID, params)
	if err != nil {
		return nil, 0, s.failure("list entries", err)
	}
	return entries, total, nil
}

// AttachDocument stores document metadata on one of the actor's entries.
// Entries of other users are reported as missing.
func (s *EntryService) AttachDocument(ctx context.Context, actor authz.Actor, entryID uint64, input DocumentInput) (*models.Document, error) {
	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		return nil, ErrFilenameRequired
	}
	if input.SizeBytes < 0 {
		return nil, ErrInvalidSize
	}
	if err := s.authorize(ctx, actor, authz.ActionManageOwnEntries, authz.NoTarget()); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.Missing("entry")
		}
		return nil, s.failure("find entry", err)
	}
	if entry.UserID != actor.UserID {
		return nil, apierrors.Missing("entry")
	}

	key, err := utils.GenerateStorageKey(entry.ID)
	if err != nil {
		return nil, s.failure("generate storage key", err)
	}

	doc := &models.Document{
		EntryID:     entry.ID,
		Filename:    filename,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		StorageKey:  key,
	}
	if err := s.entryRepo.AddDocument(ctx, doc); err != nil {
		return nil, s.failure("add document", err)
	}
	return doc, nil
}
