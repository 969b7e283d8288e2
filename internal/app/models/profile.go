package models

// UserProfile bundles a user with all of their internships and courses.
type UserProfile struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Internships []Internship `json:"internships"`
	Courses     []Course     `json:"courses"`
}

// Clone returns a copy that shares no slices with p
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Internships = append(make([]Internship, 0, len(p.Internships)), p.Internships...)
	c.Courses = append(make([]Course, 0, len(p.Courses)), p.Courses...)
	return &c
}
