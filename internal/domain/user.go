package domain

// User is an account holder registered with the branch.
type User struct {
	FullName   string
	BirthDate  string
	NationalID string
	Address    string
}
