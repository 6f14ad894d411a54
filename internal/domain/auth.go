package domain

import "time"

// SubjectType identifies who a token was issued to.
type SubjectType string

const (
	SubjectTypeOperator SubjectType = "OPERATOR"
)

// Token is an issued bearer token and its metadata.
type Token struct {
	Value     string
	SubjectID string
	Subject   SubjectType
	ExpiresAt time.Time
}
