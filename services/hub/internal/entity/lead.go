package entity

import "time"

const SourceCourseWaitlist = "course_waitlist"

type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Position  *string   `json:"position"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type LeadInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Position string `json:"position"`
	Source   string `json:"source"`
}

type WaitlistResult struct {
	Lead *Lead `json:"lead"`
	// CloseAfter is how long the confirmation stays visible before it closes.
	CloseAfter time.Duration `json:"-"`
}
