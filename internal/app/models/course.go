package models

// Course tracks a user's progress through one course. (UserID, CourseName) is unique.
type Course struct {
	ID               int64  `json:"id" db:"course_id"`
	UserID           int64  `json:"userId" db:"user_id"`
	CourseName       string `json:"courseName" db:"course_name" example:"Digital Marketing"`
	ModulesCompleted int    `json:"modulesCompleted" db:"modules_completed" example:"3"`
	TotalModules     int    `json:"totalModules" db:"total_modules" example:"10"`
}
