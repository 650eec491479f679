package domain

// SubjectType identifies who acted: an operator or the engine itself.
type SubjectType string

const (
	SubjectTypeStaff  SubjectType = "STAFF"
	SubjectTypeSystem SubjectType = "SYSTEM"
)
