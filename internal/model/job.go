package model

import (
	"context"
	"strings"
	"time"
)

// openApplicationPrefix marks reference codes of speculative (non-vacancy) postings.
const openApplicationPrefix = "OR"

// Job is one vacancy as published by the recruitment backend.
type Job struct {
	ID               int        // unique within a category listing
	ClientID         int        // hiring client (airline, MRO, lessor)
	IsPartnerCompany bool       // ClientIsPartnerCompany
	IsLowVolume      bool       // IsLowVolumePosition
	Title            string     // free text, e.g. "B737 Captain"
	Description      string     // published description, may contain HTML or be empty
	Category         string     // e.g. "Pilots - Contract"
	EmploymentType   string     // e.g. "Contract", "Permanent"
	Location         string     // free text, e.g. "Vienna, Austria (AT)"; empty when absent
	RefNo            string     // reference code; "OR..." means open application
	CreatedOn        *time.Time // nil when absent or unparseable
	StartDate        *time.Time // nil when absent or unparseable
	StatusDate       *time.Time // nil when absent or unparseable
	CurrencyName     string
	CurrencySymbol   string
	Salary           string
	MinBasic         string
	MaxBasic         string
	MinPackage       string
	MaxPackage       string
	Places           int // NoOfPlaces
	RowOrder         int // ROWORDER as delivered upstream
}

// IsOpenApplication reports whether the job is an open application rather
// than a specific vacancy.
func (j Job) IsOpenApplication() bool {
	return strings.HasPrefix(strings.TrimSpace(j.RefNo), openApplicationPrefix)
}

// JobFetcher fetches the job listing of one category.
type JobFetcher interface {
	FetchJobs(ctx context.Context) ([]Job, error)
}

// LogoFetcher resolves the logo URL of a hiring client.
type LogoFetcher interface {
	FetchLogo(ctx context.Context, clientID int) (string, error)
}

// JobStore tracks which job IDs have been seen for deduplication.
type JobStore interface {
	HasSeen(jobID string) (bool, error)
	MarkSeen(jobID string) error
	Cleanup(olderThan time.Duration) error
	IsEmpty() (bool, error)
}

// Notifier sends notifications for new job matches.
type Notifier interface {
	Notify(jobs []Job) error
}

// JobFilter decides whether a job matches the current selection.
type JobFilter interface {
	Match(job Job) bool
}
