package models

// Chalet is a bookable lodging unit.
type Chalet struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// ChaletInput carries raw, unvalidated chalet fields as they arrive from a caller.
type ChaletInput struct {
	Name     any `json:"name" binding:"required"`
	Capacity any `json:"capacity" binding:"required"`
}
