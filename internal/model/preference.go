package model

// UserPreference is replaced wholesale on save; there is no incremental
// tag add/remove.
type UserPreference struct {
	UserID string   `json:"user_id"`
	Tags   []string `json:"tags"`
	Ctime  int64    `json:"ctime"`
	Mtime  int64    `json:"mtime"`
}
