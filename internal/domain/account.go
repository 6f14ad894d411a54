package domain

// Account is a checking account opened for a registered user.
type Account struct {
	BranchCode string
	Number     string
	Owner      User
	Active     bool
}

// StatusLabel is the human readable account status.
func (a Account) StatusLabel() string {
	if a.Active {
		return "Active"
	}
	return "Closed"
}
