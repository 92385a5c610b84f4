// Package model defines the data structures used throughout the application.
package model

import "time"

// Snippet is a stored piece of source code plus its rendered HTML.
//
// Highlighted is derived: the service regenerates it from Code, Language,
// Style, Title and LineNumbers on every save, so it is never read from
// client input and is served through its own endpoint instead of the JSON body.
type Snippet struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Owner       string    `json:"owner"` // owner's username, read-only
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	LineNumbers bool      `json:"linenos"`
	Language    string    `json:"language"`
	Style       string    `json:"style"`
	Highlighted string    `json:"-"`
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"updated"`
}
