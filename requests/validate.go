package requests

// Validate - options for a manually triggered validation run
type Validate struct {
	// reload the bundle before validating
	Update bool `json:"update"`
}
