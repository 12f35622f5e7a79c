package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"docmind/internal/domain"
	"docmind/internal/infra"
	"docmind/internal/sqlinline"
)

// DocumentRepositoryPG implements domain.DocumentRepository using PostgreSQL.
type DocumentRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDocumentRepository constructs a new document repository instance.
func NewDocumentRepository(sql infra.SQLExecutor) *DocumentRepositoryPG {
	return &DocumentRepositoryPG{sql: sql}
}

// Create persists a new document and fills in its creation timestamp.
func (r *DocumentRepositoryPG) Create(ctx context.Context, doc *domain.Document) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertDocument,
		doc.ID, doc.UserID, doc.Title, doc.Content, doc.StorageKey, doc.IsImage, doc.PageCount)
	return row.Scan(&doc.CreatedAt)
}

// GetByID fetches a document by UUID.
func (r *DocumentRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var d domain.Document
	err := r.sql.QueryRow(ctx, sqlinline.QSelectDocumentByID, id).Scan(
		&d.ID, &d.UserID, &d.Title, &d.Content, &d.StorageKey, &d.IsImage, &d.PageCount,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByUser returns the user's documents, newest first.
func (r *DocumentRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Document, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDocumentsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.StorageKey, &d.IsImage,
			&d.PageCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes the document when it belongs to the user.
func (r *DocumentRepositoryPG) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteDocument, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveAnalysis attaches a completed analysis to its document.
func (r *DocumentRepositoryPG) SaveAnalysis(ctx context.Context, a *domain.Analysis) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertAnalysis, a.ID, a.DocumentID, a.Type, a.Result)
	return row.Scan(&a.CreatedAt)
}

// ListAnalyses returns all analyses for the document, oldest first.
func (r *DocumentRepositoryPG) ListAnalyses(ctx context.Context, documentID string) ([]domain.Analysis, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAnalysesByDocument, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		if err := rows.Scan(&a.ID, &a.DocumentID, &a.Type, &a.Result, &a.CreatedAt); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return analyses, nil
}

var _ domain.DocumentRepository = (*DocumentRepositoryPG)(nil)
