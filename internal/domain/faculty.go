package domain

import (
	"fmt"
	"strings"
)

// Faculty is an instructor who may be assigned to teach sections.
type Faculty struct {
	number    int
	firstName string
	lastName  string
}

// NewFaculty creates a faculty member.  The faculty number must be
// non-negative and both name fields non-blank.
func NewFaculty(number int, firstName, lastName string) (*Faculty, error) {
	if number < 0 {
		return nil, fmt.Errorf("facultyNumber can't be negative, was: %d", number)
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, fmt.Errorf("faculty name can't be blank")
	}
	return &Faculty{number: number, firstName: firstName, lastName: lastName}, nil
}

// Number returns the identifying faculty number.
func (f *Faculty) Number() int { return f.number }

// FirstName returns the faculty member's first name.
func (f *Faculty) FirstName() string { return f.firstName }

// LastName returns the faculty member's last name.
func (f *Faculty) LastName() string { return f.lastName }

// Equal compares faculty by number.
func (f *Faculty) Equal(other *Faculty) bool {
	return other != nil && f.number == other.number
}
