package model

import "time"

// Project is a user-authored artifact.
type Project struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Account is a connected account (wallet, github, ...).
type Account struct {
	Source      string    `json:"source"`
	Identifier  string    `json:"identifier"`
	Username    string    `json:"username,omitempty"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Social is a linked social profile.
type Social struct {
	Source         string `json:"source"`
	Handle         string `json:"handle"`
	FollowersCount int    `json:"followersCount"`
	ProfileURL     string `json:"profileUrl,omitempty"`
}
