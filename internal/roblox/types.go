// Package roblox provides a client for the Roblox thumbnails API and a
// batch resolver that copes with thumbnails the service has not finished
// generating yet.
package roblox

// StateCompleted is the only terminal success state for a thumbnail.
// Every other state (Pending, Blocked, Error, ...) means the asset has no
// usable image URL yet.
const StateCompleted = "Completed"

// Thumbnail is one asset entry from a thumbnails API response.
type Thumbnail struct {
	AssetID  string
	State    string
	ImageURL string
}

// Resolution is the terminal outcome for one asset ID. Resolved carries the
// image URL; unresolved means the asset never reached a terminal state
// within the retry budget.
type Resolution struct {
	URL      string
	Resolved bool
}

// Raw API response types (internal)

type lookupResponse struct {
	Data []lookupItem `json:"data"`
}

type lookupItem struct {
	TargetID int64  `json:"targetId"`
	State    string `json:"state"`
	ImageURL string `json:"imageUrl"`
}
