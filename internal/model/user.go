package model

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	AnonID       string `json:"anon_id"`
	Ctime        int64  `json:"ctime"`
}
