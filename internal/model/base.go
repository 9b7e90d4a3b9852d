package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ApprovalStatus is the signup approval state shared by doctors, patients
// and appointments. Rejection deletes the record instead of flagging it,
// so there is no terminal value here.
type ApprovalStatus string

const (
	ApprovalStatusPending ApprovalStatus = "pending"
	ApprovalStatusActive  ApprovalStatus = "active"
)

// Pagination represents common pagination parameters
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}
