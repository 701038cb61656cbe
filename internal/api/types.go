package api

// UpdateRequest rewrites the name and playback target of an existing card.
type UpdateRequest struct {
	Card string `json:"card"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NewCardRequest registers a freshly scanned card id. An empty id makes the
// server fall back to its placeholder id.
type NewCardRequest struct {
	ID string `json:"id"`
}

// SelectAlbumRequest binds a search result to a card. Field names match the
// editor frontend's payload.
type SelectAlbumRequest struct {
	Card        string `json:"card"`
	AlbumArtist string `json:"albumArtist"`
	AlbumName   string `json:"albumName"`
	AlbumURI    string `json:"albumUri"`
	AlbumArt    string `json:"albumArt"`
}

// StatusResponse describes a running daemon.
type StatusResponse struct {
	Running     bool   `json:"running"`
	PID         int    `json:"pid"`
	Cards       int    `json:"cards"`
	Subscribers int    `json:"subscribers"`
	RowFile     string `json:"rowFile"`
	LookupFile  string `json:"lookupFile"`
	LockFile    string `json:"lockFile"`
}
