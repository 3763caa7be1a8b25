package domain

import (
	"fmt"
	"strings"
)

// Subject is a course identity plus its prerequisite set.  Subjects are
// immutable after creation and compared by code.
type Subject struct {
	code    string
	prereqs []*Subject
}

// NewSubject creates a subject with an optional list of prerequisites.
// The code must be non-blank.
func NewSubject(code string, prereqs ...*Subject) (*Subject, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("subject code can't be blank")
	}
	return &Subject{code: code, prereqs: prereqs}, nil
}

// Code returns the subject's identifying code.
func (s *Subject) Code() string { return s.code }

// Prerequisites returns the subjects that must be taken before this one.
// The returned slice must not be modified.
func (s *Subject) Prerequisites() []*Subject { return s.prereqs }

// Equal compares subjects by code.
func (s *Subject) Equal(other *Subject) bool {
	return other != nil && s.code == other.code
}

// HasPrerequisitesSatisfiedBy reports whether every prerequisite of this
// subject appears in the taken set.  Membership is by subject code.
func (s *Subject) HasPrerequisitesSatisfiedBy(taken []*Subject) bool {
	return len(s.missingPrereqs(taken)) == 0
}

// missingPrereqs returns the codes of prerequisites absent from taken, in
// declaration order so error messages are stable.
func (s *Subject) missingPrereqs(taken []*Subject) []string {
	have := make(map[string]bool, len(taken))
	for _, t := range taken {
		have[t.code] = true
	}
	var missing []string
	for _, p := range s.prereqs {
		if !have[p.code] {
			missing = append(missing, p.code)
		}
	}
	return missing
}

func (s *Subject) String() string { return s.code }
