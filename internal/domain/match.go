package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchCandidate is one scored comparison result, ranked by the evaluator.
type MatchCandidate struct {
	ReportID uuid.UUID
	Score    float64
}

// MatchNotification is a ledger entry recording that both parties of a
// (source, matched) report pair have been notified. The unordered pair is
// unique across the ledger; entries are never updated or deleted.
type MatchNotification struct {
	ID              uuid.UUID
	SourceReportID  uuid.UUID
	MatchedReportID uuid.UUID
	Similarity      float64
	NotifiedAt      time.Time
}
