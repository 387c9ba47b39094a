// Package models defines the data transfer objects exchanged with the
// AricaInsights API.
package models

// AlertFrequency is how often the platform notifies a user about new
// mentions of their keywords.
type AlertFrequency string

const (
	AlertRealtime AlertFrequency = "realtime"
	AlertDaily    AlertFrequency = "daily"
	AlertWeekly   AlertFrequency = "weekly"
)

// Preferences holds per-user dashboard settings.
type Preferences struct {
	AlertFrequency     AlertFrequency `json:"alertFrequency"`
	EmailNotifications bool           `json:"emailNotifications"`
	DarkMode           bool           `json:"darkMode"`
}

// User is the platform account as returned by the API. The session owns
// exactly one User at a time; it is replaced wholesale on login/signup and
// cleared on logout.
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty"`
	Keywords    []string    `json:"keywords"`
	Preferences Preferences `json:"preferences"`
}
