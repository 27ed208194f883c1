// Package user models the employee profile the attendance core reads
// (schedule, timezone, display attributes) and the credential/role
// fields the registration and admin wrappers own.
package user

// Schedule is the pair of local clock-face times a punch-out is measured
// against. Both fields are "HH:MM" strings with Start < End on the clock
// face.
type Schedule struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// User is identified by an opaque uid assigned by the identity provider
// that issues bearer tokens upstream of this service.
type User struct {
	UID          string    `json:"uid"`
	Schedule     *Schedule `json:"schedule,omitempty"`
	Timezone     string    `json:"timezone,omitempty"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Department   string    `json:"department"`
	Position     string    `json:"position"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
}

// HasSchedule reports whether both ends of the clock-face schedule are
// configured, the precondition punchOut requires.
func (u *User) HasSchedule() bool {
	return u.Schedule != nil && u.Schedule.Start != "" && u.Schedule.End != ""
}
