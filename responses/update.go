package responses

// Update - outcome of a bundle update
type Update struct {
	Success      bool   `json:"success"`
	Source       string `json:"source"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Stats        Stats  `json:"stats"`
}
