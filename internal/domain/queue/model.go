package queue

import (
	"time"

	"github.com/nethra/triage/internal/domain/pathway"
)

// Status is the visit's position in its lifecycle.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusServing   Status = "serving"
	StatusCompleted Status = "completed"
)

// Visit is the mutable journey state for one patient token. It is owned by
// the Engine; callers get copies, never live pointers into the store.
type Visit struct {
	Token       string            `json:"token"`
	PatientName string            `json:"patient_name"`
	ESILevel    int               `json:"esi_level"`
	Category    pathway.Category  `json:"category"`
	Pathway     []pathway.Station `json:"pathway"`
	Current     pathway.Station   `json:"current_station"`
	Status      Status            `json:"status"`
	EntryTime   time.Time         `json:"entry_time"`
}

// Entry is one waiting patient in a station's list. BasePriority is fixed
// at enqueue time; TotalScore is recomputed on every read so aging is
// always current.
type Entry struct {
	Token        string    `json:"token"`
	PatientName  string    `json:"patient_name"`
	ESILevel     int       `json:"esi_level"`
	BasePriority int       `json:"base_priority"`
	EntryTime    time.Time `json:"entry_time"`
	TotalScore   float64   `json:"total_score"`
	WaitMinutes  float64   `json:"wait_minutes"`
}

// PatientStatus is the read-only snapshot returned to status lookups.
type PatientStatus struct {
	Token         string            `json:"token"`
	Current       pathway.Station   `json:"current_station"`
	Position      int               `json:"queue_position"`
	EstimatedWait int               `json:"estimated_wait_minutes"`
	Pathway       []pathway.Station `json:"pathway"`
	ESILevel      int               `json:"esi_level"`
	Status        Status            `json:"status"`
}

// AdvanceResult reports where an advance call landed.
type AdvanceResult struct {
	Completed   bool            `json:"completed"`
	NextStation pathway.Station `json:"next_station,omitempty"`
}

// basePriorities maps ESI levels to their fixed base scores. The gaps are
// wide enough that aging only reorders within neighbouring tiers after a
// long wait.
var basePriorities = map[int]int{
	1: 1000,
	2: 800,
	3: 500,
	4: 200,
	5: 100,
}

// BasePriority returns the enqueue-time score for an ESI level. Unknown
// levels get the ESI-3 weight.
func BasePriority(level int) int {
	if p, ok := basePriorities[level]; ok {
		return p
	}
	return basePriorities[3]
}
