package model

import "time"

// User is an account that can own snippets.
//
// Accounts come from two places: username/password registration, and
// GitHub OAuth. GitHubID is 0 for accounts that never signed in through
// GitHub; PasswordHash is empty for accounts that only use GitHub.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"githubId,omitempty"`
	Email        string    `json:"email,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Snippets holds the ids of the user's snippets, oldest first.
	Snippets []string `json:"snippets"`
}
