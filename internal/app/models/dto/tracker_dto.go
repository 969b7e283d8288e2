package dto

// LogInternshipRequest is the body of POST /me/internships
type LogInternshipRequest struct {
	CompanyName      string `json:"companyName" binding:"required" example:"Acme Textiles"`
	Duration         string `json:"duration" binding:"required" example:"3 months"`
	Feedback         string `json:"feedback" example:"Digitised the order book"`
	MSMEsDigitalized int    `json:"msmeDigitalized" binding:"min=0" example:"2"`
}

// LogCourseRequest is the body of POST /me/courses
type LogCourseRequest struct {
	CourseName       string `json:"courseName" binding:"required" example:"Digital Marketing"`
	ModulesCompleted int    `json:"modulesCompleted" binding:"min=0" example:"3"`
	TotalModules     int    `json:"totalModules" binding:"required,min=1" example:"10"`
}

// LogFeedbackRequest is the body of POST /me/feedback. Exactly one of Rating or Emoji is used;
// Emoji wins when both are set.
type LogFeedbackRequest struct {
	Rating   int    `json:"rating" example:"4"`
	Emoji    string `json:"emoji,omitempty" example:"😊"`
	Comments string `json:"comments" example:"Loved the mentoring sessions"`
}
