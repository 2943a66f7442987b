package models

import "time"

// Session is the server-side wizard state for one visitor: the chosen
// vehicle, the current step index and the per-step item selections. Sessions
// live only for the configured TTL.
type Session struct {
	ID         string              `json:"id"`
	VehicleID  string              `json:"vehicleId,omitempty"`
	StepIndex  int                 `json:"stepIndex"`
	Selections map[string][]string `json:"selections"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// SelectedItemIDs flattens the per-step selections into a single list.
func (s *Session) SelectedItemIDs() []string {
	var ids []string
	for _, stepIDs := range s.Selections {
		ids = append(ids, stepIDs...)
	}
	return ids
}
