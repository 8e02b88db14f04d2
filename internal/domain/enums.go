package domain

// ReportKind says whether a report describes a lost or a found animal.
// Fixed at creation; matching only ever compares opposite kinds.
type ReportKind string

const (
	ReportKindLost  ReportKind = "lost"
	ReportKindFound ReportKind = "found"
)

func (k ReportKind) String() string { return string(k) }

func (k ReportKind) IsValid() bool {
	switch k {
	case ReportKindLost, ReportKindFound:
		return true
	}
	return false
}

// Opposite returns the counterpart kind a report is matched against.
func (k ReportKind) Opposite() ReportKind {
	if k == ReportKindLost {
		return ReportKindFound
	}
	return ReportKindLost
}

// Gender of the reported animal.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

func (g Gender) String() string { return string(g) }

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}

// Size of the reported animal.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

func (s Size) String() string { return string(s) }

func (s Size) IsValid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// Coat length of the reported animal.
type Coat string

const (
	CoatShort Coat = "short"
	CoatLong  Coat = "long"
	CoatNone  Coat = "none"
)

func (c Coat) String() string { return string(c) }

func (c Coat) IsValid() bool {
	switch c {
	case CoatShort, CoatLong, CoatNone:
		return true
	}
	return false
}
