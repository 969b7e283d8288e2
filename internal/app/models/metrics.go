package models

// Metrics aggregates activity across all users holding one role.
type Metrics struct {
	TotalInternships    int64 `json:"totalInternships"`
	TotalMSMEsSupported int64 `json:"totalMsmesSupported"`
	TotalCourses        int64 `json:"totalCourses"`
}

// ReportRow is one line of the role report: a user left-joined with one of their internships.
// Internship fields are nil for users who have not logged any.
type ReportRow struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	CompanyName      *string `json:"companyName"`
	Duration         *string `json:"duration"`
	Feedback         *string `json:"feedback"`
	MSMEsDigitalized *int    `json:"msmeDigitalized"`
}
