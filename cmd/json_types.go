package cmd

// stepForJSON is the machine-readable shape of one planned step.
type stepForJSON struct {
	Name    string   `json:"name"`
	Policy  string   `json:"policy"`
	Details []string `json:"details"`
}
