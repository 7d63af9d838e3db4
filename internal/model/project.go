package model

import "time"

// Status is a project's workflow status.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Stage is a project's production stage.
type Stage string

const (
	StageShooting Stage = "Shooting"
	StageEditing  Stage = "Editing"
	StageDelivery Stage = "Delivery"
)

func (s Stage) Valid() bool {
	switch s {
	case StageShooting, StageEditing, StageDelivery:
		return true
	}
	return false
}

// PaymentStatus tracks how much of a project's fee has been collected.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "Unpaid"
	PaymentPartiallyPaid PaymentStatus = "PartiallyPaid"
	PaymentPaid          PaymentStatus = "Paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartiallyPaid, PaymentPaid:
		return true
	}
	return false
}

// Project is a photography engagement owned by exactly one user.
// GalleryImages are kept in insertion order, which is the client-facing
// delivery order.
type Project struct {
	ID            string        `json:"id"`
	ClientName    string        `json:"clientName"`
	Date          time.Time     `json:"date"`
	Location      string        `json:"location"`
	Photographer  string        `json:"photographer"`
	Status        Status        `json:"status"`
	Stage         Stage         `json:"stage"`
	Income        float64       `json:"income"`
	Expenses      float64       `json:"expenses"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Description   string        `json:"description"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	UserEmail     string        `json:"user_email"`
	GalleryImages []string      `json:"galleryImages"`
	CreatedAt     time.Time     `json:"createdAt,omitzero"`
}

// Backup is the full multi-user dataset: every user record (including
// password hashes) plus each user's projects keyed by email. This is the
// on-disk format of the JSON-file engine and the admin export format.
type Backup struct {
	Users    []User               `json:"users"`
	Projects map[string][]Project `json:"projects"`
}

// Portfolio is the public view resolved from a portfolio slug: the owner
// with the password stripped and their completed projects only.
type Portfolio struct {
	User     User      `json:"user"`
	Projects []Project `json:"projects"`
}
