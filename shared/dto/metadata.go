package dto

import (
	"roombook/shared/constant"
	"roombook/shared/model"
	"roombook/shared/timezone"
	"time"
)

// Metadata is the audit trail shown with rooms and bookings. Instants are
// rendered in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at,omitempty"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = formatInstant(model.CreatedAt)
	m.ModifiedAt = formatInstant(model.ModifiedAt)
	m.CreatedBy = model.CreatedBy
	m.ModifiedBy = model.ModifiedBy
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return constant.Empty
	}

	return timezone.Format(t, constant.InstantFormat)
}
