package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SetPlan(ctx context.Context, id, plan string) error
	AdjustDocumentsCount(ctx context.Context, id string, delta int) error
	IncrementAnalysesUsed(ctx context.Context, id string) error
}

// DocumentRepository defines persistence for documents and their analyses.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	Delete(ctx context.Context, id, userID string) error
	SaveAnalysis(ctx context.Context, a *Analysis) error
	ListAnalyses(ctx context.Context, documentID string) ([]Analysis, error)
}
