package services

import (
	"strings"

	"github.com/kyra/interntrack/internal/app/models"
)

// greetings are per-role templates; [Name] is replaced with the user's name
var greetings = map[models.Role]string{
	models.RoleStudent:    "Welcome, [Name]! Ky’ra is here to guide your journey. Let’s begin! 🌟",
	models.RoleCollege:    "Hello, [Name]! Ready to empower your students? Ky’ra is with you. 📚",
	models.RoleMSME:       "Hi, [Name]! Let’s transform your business with Ky’ra’s support! 🚀",
	models.RoleMentor:     "Welcome, [Name]! Your wisdom shapes futures. Let’s start! 💡",
	models.RoleGovernment: "Greetings, [Name]! Driving impact with Ky’ra’s insights. 🏛",
}

// MotivationalPrompts are shown to students according to their progress level
var MotivationalPrompts = map[models.ProgressLevel]string{
	models.ProgressNone: "You’re just starting! Log your first step with Ky’ra to shine! 🚀",
	models.ProgressSome: "Great work! You’re moving forward – Ky’ra sees your progress! 💪",
	models.ProgressHigh: "You’re a star! Keep shining with Ky’ra by your side! 🌟",
}

// Greeting renders the role greeting for name
func Greeting(role models.Role, name string) string {
	tmpl, ok := greetings[role]
	if !ok {
		return "Welcome back!"
	}
	return strings.ReplaceAll(tmpl, "[Name]", name)
}
