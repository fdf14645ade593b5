package pathway

import "fmt"

// Station is a clinical checkpoint with its own waiting list. The set is
// closed: YAML overrides and API input are validated against it.
type Station string

const (
	StationRegistration Station = "registration"
	StationVision       Station = "vision_test"
	StationRefraction   Station = "refraction"
	StationDilation     Station = "dilation"
	StationFundus       Station = "fundus_photo"
	StationInvestigate  Station = "investigation"
	StationIOP          Station = "iop_check"
	StationDoctor       Station = "doctor_consult"
	StationTrauma       Station = "trauma_center"
	StationPharmacy     Station = "pharmacy"

	// StationDischarge terminates a pathway; patients are never queued here.
	StationDischarge Station = "discharge"
)

var allStations = map[Station]bool{
	StationRegistration: true,
	StationVision:       true,
	StationRefraction:   true,
	StationDilation:     true,
	StationFundus:       true,
	StationInvestigate:  true,
	StationIOP:          true,
	StationDoctor:       true,
	StationTrauma:       true,
	StationPharmacy:     true,
	StationDischarge:    true,
}

// ParseStation validates a station identifier.
func ParseStation(s string) (Station, error) {
	st := Station(s)
	if !allStations[st] {
		return "", fmt.Errorf("unknown station %q", s)
	}
	return st, nil
}

// Terminal reports whether the station ends a journey without queueing.
func (s Station) Terminal() bool {
	return s == StationDischarge
}
