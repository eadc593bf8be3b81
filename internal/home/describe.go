package home

import "playground/internal/users"

// StateSummary is a flat, serializable rendering of State.
type StateSummary struct {
	Users string       `json:"users"`
	List  []users.User `json:"list,omitempty"`
}

// Summarize flattens s for printing.
func Summarize(s State) StateSummary {
	switch u := s.Users.(type) {
	case UsersLoading:
		return StateSummary{Users: "loading"}
	case UsersSuccess:
		return StateSummary{Users: "success", List: u.Users}
	default:
		return StateSummary{Users: "idle"}
	}
}

// EffectSummary is a flat, serializable rendering of an Effect.
type EffectSummary struct {
	Effect string      `json:"effect"`
	User   *users.User `json:"user,omitempty"`
}

// SummarizeEffect flattens f for printing.
func SummarizeEffect(f Effect) EffectSummary {
	switch f := f.(type) {
	case ShowErrorMessage:
		return EffectSummary{Effect: "show_error_message"}
	case ShowDialog:
		u := f.User
		return EffectSummary{Effect: "show_dialog", User: &u}
	default:
		return EffectSummary{Effect: "none"}
	}
}
