package model

import "time"

// Period is one calendar-month document-collection cycle for one client.
// Status moves only through the lifecycle controller; periods are never
// physically deleted.
type Period struct {
	ID        string       `json:"id"`
	ClientID  string       `json:"clientId"`
	Year      int          `json:"year"`
	Month     int          `json:"month"`
	Status    PeriodStatus `json:"status"`
	DueDate   *time.Time   `json:"dueDate,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// PeriodRequest is a checklist item: "we expect a document of kind X for this
// period". Status is a pure function of the documents assigned to it.
type PeriodRequest struct {
	ID        string        `json:"id"`
	PeriodID  string        `json:"periodId"`
	Title     string        `json:"title"`
	Category  string        `json:"category,omitempty"`
	Required  bool          `json:"required"`
	SortOrder int           `json:"sortOrder"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
