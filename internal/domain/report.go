package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is a single lost/found submission with one photo and descriptive
// attributes. Created by the intake flow; read-only to the matching core
// except for the Active flag, which is flipped out of band.
type Report struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Kind       ReportKind
	Photo      []byte
	Species    string
	Breed      string
	Gender     Gender
	Size       Size
	Coat       Coat
	City       string
	ChipNumber *string
	Active     bool
	CreatedAt  time.Time
}

// Validate checks that a report is complete enough to store and match.
// Optional attributes (breed, gender, size, coat, chip) may be empty; the
// fields the matcher depends on may not.
func (r *Report) Validate() error {
	var errs []FieldError
	if !r.Kind.IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: "must be lost or found"})
	}
	if len(r.Photo) == 0 {
		errs = append(errs, FieldError{Field: "photo", Message: "is required"})
	}
	if r.Species == "" {
		errs = append(errs, FieldError{Field: "species", Message: "is required"})
	}
	if r.City == "" {
		errs = append(errs, FieldError{Field: "city", Message: "is required"})
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// CandidateFilter selects reports eligible for comparison against a source
// report: opposite kind, same city and species, currently active, source
// excluded. City and species are hard filters, not ranking signals.
type CandidateFilter struct {
	Kind      ReportKind
	City      string
	Species   string
	ExcludeID uuid.UUID
}

// CandidateImage pairs a candidate report id with its photo bytes.
type CandidateImage struct {
	ReportID uuid.UUID
	Photo    []byte
}
