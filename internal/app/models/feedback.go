package models

// Rating bounds for feedback
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback defines the 'feedback' table. Rows are append-only.
type Feedback struct {
	ID       int64  `json:"id" db:"feedback_id"`
	UserID   int64  `json:"userId" db:"user_id"`
	Rating   int    `json:"rating" db:"rating" example:"4"`
	Comments string `json:"comments" db:"comments"`
}

// EmojiRatings is the emoji scale offered next to the star rating.
var EmojiRatings = map[string]int{
	"😊": 5,
	"🙂": 3,
	"😔": 1,
}
