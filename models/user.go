package models

// InstructorProfile is the public view of an instructor.
type InstructorProfile struct {
	ID        string           `json:"id"`
	FullName  string           `json:"full_name"`
	AvatarURL string           `json:"avatar_url,omitempty"`
	Courses   []CourseResponse `json:"courses"`
}

func NewInstructorProfile(u User, courses []Course) InstructorProfile {
	return InstructorProfile{
		ID:        u.ID,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Courses:   NewCourseResponses(courses),
	}
}
