package registry

// Card is a registry entry: a physical card identifier mapped to a playable
// media reference. Empty Name or URL means "unset".
type Card struct {
	ID   string `json:"card"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
