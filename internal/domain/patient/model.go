package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/nethra/triage/internal/domain/pathway"
)

// Patient is the registered person record. History flags live here so a
// returning patient's risk factors apply without re-entry at the kiosk.
type Patient struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Age          int        `json:"age"`
	Diabetes     bool       `json:"diabetes"`
	Glaucoma     bool       `json:"glaucoma"`
	Hypertension bool       `json:"hypertension"`
	OneEyed      bool       `json:"one_eyed"`
	LastSurgery  *time.Time `json:"last_surgery,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// VisitRecord is the durable row written when a visit is registered. The
// live journey state stays in the queue engine; this is the audit copy.
type VisitRecord struct {
	ID        uuid.UUID        `json:"id"`
	PatientID uuid.UUID        `json:"patient_id"`
	Token     string           `json:"token"`
	Complaint string           `json:"complaint"`
	ESILevel  int              `json:"esi_level"`
	Category  pathway.Category `json:"category"`
	Condition string           `json:"condition"`
	Reasoning string           `json:"reasoning"`
	CreatedAt time.Time        `json:"created_at"`
}
