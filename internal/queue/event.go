// Package queue defines message payloads exchanged over the message
// broker along with the publisher and the background consumer for them.
package queue

// EnlistmentCompletedEvent is published when an enlist or cancel commits.
// It carries enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database.
type EnlistmentCompletedEvent struct {
	StudentNumber int    `json:"student_number"`
	SectionID     string `json:"section_id"`
	SubjectCode   string `json:"subject_code"`
	Action        string `json:"action"` // ENLIST or CANCEL
	RoomName      string `json:"room_name"`
	Enrolled      int    `json:"enrolled"`
	Capacity      int    `json:"capacity"`
	OccurredAt    string `json:"occurred_at"`
}
