package domain

// User represents an application user. Family membership (and the role within
// each family) lives on UserFamily, not here.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	AuditFields
}
