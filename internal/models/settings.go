package models

// Settings holds per-installation configuration persisted by the store.
type Settings struct {
	Timezone string `json:"timezone"` // IANA name, e.g. "America/New_York"
	Premium  bool   `json:"premium"`  // unlocks the premium analytics tier
}
