package entity

import "time"

// Account is a login credential record. Passwords are stored as bcrypt
// hashes in Password.
type Account struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the person behind an account: student data for regular users,
// staff data for administrators.
type Profile struct {
	ID            string
	AccountID     string
	FullName      string
	Email         string
	Phone         string
	StudentNumber string
	AvatarURL     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RoleAssignment links an account to an administrative role. At most one
// per account; absence means the account has no administrative capability.
type RoleAssignment struct {
	AccountID string
	Role      string
	GrantedBy string
	GrantedAt time.Time
}
