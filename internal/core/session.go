package core

// SessionInfo is the opaque credential bundle required to invoke the
// recommendation agent. It is obtained once per component lifetime;
// while it is absent the recommendation feature is disabled.
type SessionInfo struct {
	AccessToken string `json:"accessToken"`
	SessionID   string `json:"sessionId"`
}

// Valid reports whether the bundle carries both credentials.
func (s SessionInfo) Valid() bool {
	return s.AccessToken != "" && s.SessionID != ""
}

// RecommendationView is the transient presentation state for the agent
// answer of one selected book. Exactly one view is active at a time;
// opening a new one replaces any prior one.
type RecommendationView struct {
	SelectedBookName string
	Recommendations  string
	Visible          bool
}
