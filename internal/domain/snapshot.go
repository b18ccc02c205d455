package domain

import "time"

// Snapshot describes a stored copy of a document
type Snapshot struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Digest    string    `json:"digest"`
	Objects   int       `json:"objects"`
	CreatedAt time.Time `json:"created_at"`
}
