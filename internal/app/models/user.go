package models

// User defines the user model based on the 'users' table
type User struct {
	ID           int64   `json:"id" db:"user_id" example:"1"`
	Name         string  `json:"name" db:"name" example:"Alice"`
	Email        string  `json:"email" db:"email" example:"student@example.com"`
	Mobile       *string `json:"mobile,omitempty" db:"mobile"`
	Role         Role    `json:"role" db:"role" example:"Student"`
	Organization *string `json:"org,omitempty" db:"org"`
}

// UserClaim is what an identity verifier vouches for after checking credentials.
type UserClaim struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
