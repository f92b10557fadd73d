package monitor

// Transition is a change in a monitor's classified status between two
// consecutive results. The first-ever result for a monitor is a transition
// from the implicit unknown state (empty From) only when the new status is
// not UP, so a first healthy check raises no alert.
type Transition struct {
	MonitorName string `json:"monitor_name"`
	From        Status `json:"from,omitempty"`
	To          Status `json:"to"`

	// Result is the probe result that triggered the transition.
	Result Result `json:"result"`
}
