package domain

import "time"

// AnalysisType enumerates the AI analyses a document can receive.
type AnalysisType string

const (
	AnalysisSummary     AnalysisType = "summary"
	AnalysisSimple      AnalysisType = "simple"
	AnalysisSuggestions AnalysisType = "suggestions"
	AnalysisImproved    AnalysisType = "improved"
)

// ValidAnalysisType reports whether t is one of the supported analyses.
func ValidAnalysisType(t AnalysisType) bool {
	switch t {
	case AnalysisSummary, AnalysisSimple, AnalysisSuggestions, AnalysisImproved:
		return true
	}
	return false
}

// Document is an uploaded or pasted text (or image) a user wants analyzed.
type Document struct {
	ID         string
	UserID     string
	Title      string
	Content    string
	StorageKey string // set when the raw upload is kept on disk
	IsImage    bool
	PageCount  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Analysis is a completed AI analysis attached to a document.
type Analysis struct {
	ID         string
	DocumentID string
	Type       AnalysisType
	Result     string
	CreatedAt  time.Time
}

// JobStatus enumerates analysis job lifecycle states.
type JobStatus string

const (
	JobQueued    JobStatus = "QUEUED"
	JobRunning   JobStatus = "RUNNING"
	JobSucceeded JobStatus = "SUCCEEDED"
	JobFailed    JobStatus = "FAILED"
)

// AnalysisJob is a queued request for the worker to run one analysis.
type AnalysisJob struct {
	ID         string
	DocumentID string
	UserID     string
	Type       AnalysisType
	Status     JobStatus
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
