package domain

import "time"

// IntakeState is the tagged FSM state of one intake conversation.
type IntakeState string

const (
	IntakeStateKind    IntakeState = "awaiting_kind"
	IntakeStatePhoto   IntakeState = "awaiting_photo"
	IntakeStateSpecies IntakeState = "awaiting_species"
	IntakeStateBreed   IntakeState = "awaiting_breed"
	IntakeStateGender  IntakeState = "awaiting_gender"
	IntakeStateSize    IntakeState = "awaiting_size"
	IntakeStateCoat    IntakeState = "awaiting_coat"
	IntakeStateCity    IntakeState = "awaiting_city"
	IntakeStateChip    IntakeState = "awaiting_chip"
)

func (s IntakeState) String() string { return string(s) }

func (s IntakeState) IsValid() bool {
	switch s {
	case IntakeStateKind, IntakeStatePhoto, IntakeStateSpecies, IntakeStateBreed,
		IntakeStateGender, IntakeStateSize, IntakeStateCoat, IntakeStateCity,
		IntakeStateChip:
		return true
	}
	return false
}

// ReportDraft is the pending value object an intake conversation fills in
// step by step before the report row is created.
type ReportDraft struct {
	Kind       ReportKind `json:"kind"`
	Photo      []byte     `json:"photo,omitempty"`
	Species    string     `json:"species,omitempty"`
	Breed      string     `json:"breed,omitempty"`
	Gender     Gender     `json:"gender,omitempty"`
	Size       Size       `json:"size,omitempty"`
	Coat       Coat       `json:"coat,omitempty"`
	City       string     `json:"city,omitempty"`
	ChipNumber *string    `json:"chip_number,omitempty"`
}

// IntakeSession is the persisted conversation state for one chat.
type IntakeSession struct {
	ChatID    int64
	State     IntakeState
	Draft     ReportDraft
	UpdatedAt time.Time
}
