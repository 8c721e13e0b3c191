package dto

import (
	"time"

	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/utils"
)

// DocumentDTO represents document metadata in API responses
type DocumentDTO struct {
	ID          uint64    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"storage_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// EntryDTO represents an entry in API responses
type EntryDTO struct {
	ID          uint64        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Hours       float64       `json:"hours"`
	CompletedOn *time.Time    `json:"completed_on"`
	CreatedAt   time.Time     `json:"created_at"`
	Documents   []DocumentDTO `json:"documents"`
}

// EntryListResponse represents a paginated list of entries
type EntryListResponse struct {
	Entries    []EntryDTO               `json:"entries"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToDocumentDTO converts a Document model to DocumentDTO
func ToDocumentDTO(doc models.Document) DocumentDTO {
	return DocumentDTO{
		ID:          doc.ID,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		StorageKey:  doc.StorageKey,
		CreatedAt:   doc.CreatedAt,
	}
}

// ToEntryDTO converts an Entry model to EntryDTO
func ToEntryDTO(entry models.Entry) EntryDTO {
	docs := make([]DocumentDTO, len(entry.Documents))
	for i, doc := range entry.Documents {
		docs[i] = ToDocumentDTO(doc)
	}
	return EntryDTO{
		ID:          entry.ID,
		Title:       entry.Title,
		Description: entry.Description,
		Hours:       entry.Hours,
		CompletedOn: entry.CompletedOn,
		CreatedAt:   entry.CreatedAt,
		Documents:   docs,
	}
}

// ToEntryListResponse converts a page of entries to EntryListResponse
func ToEntryListResponse(entries []models.Entry, params utils.PaginationParams, total int64) EntryListResponse {
	items := make([]EntryDTO, len(entries))
	for i, entry := range entries {
		items[i] = ToEntryDTO(entry)
	}
	return EntryListResponse{
		Entries: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
