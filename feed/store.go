package feed

import (
	"context"
	"errors"

	"memehub/models"
)

var (
	// ErrNotFound marks a missing post (deleted or never existed) so callers
	// can tell it apart from a transient backend failure.
	ErrNotFound = errors.New("feed: post not found")
)

// Page is one raw fetch from the backing store: records in fetch order,
// the continuation cursor positioned after the last raw record, and the raw
// (pre-filter) record count. HasMore is derived from RawCount, never from
// how many records survive filtering.
type Page struct {
	Items    []models.Post
	Next     *Cursor
	RawCount int
}

// FieldUpdate is a partial document update. Inc is an atomic
// increment-by-delta, AddToSet and Pull are set-membership edits on array
// fields. A store applies all parts of one update atomically.
type FieldUpdate struct {
	Set      map[string]interface{}
	Inc      map[string]int64
	AddToSet map[string]string
	Pull     map[string]string
}

// PostStore is the minimal contract the engine needs from the document
// store: a single-field ordered range query with cursor continuation, a
// point read, and field-level mutation.
type PostStore interface {
	QueryPage(ctx context.Context, sortField string, descending bool, after *Cursor, limit int) (*Page, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	UpdateFields(ctx context.Context, id string, update FieldUpdate) error
	Insert(ctx context.Context, post *models.Post) (string, error)
	Delete(ctx context.Context, id string) error
}
