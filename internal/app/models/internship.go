package models

// Internship defines the 'internships' table. Rows are append-only.
type Internship struct {
	ID               int64  `json:"id" db:"internship_id"`
	UserID           int64  `json:"userId" db:"user_id"`
	CompanyName      string `json:"companyName" db:"company_name" example:"Acme Pvt Ltd"`
	Duration         string `json:"duration" db:"duration" example:"3 months"`
	Feedback         string `json:"feedback" db:"feedback"`
	MSMEsDigitalized int    `json:"msmeDigitalized" db:"msme_digitalized" example:"2"`
}
