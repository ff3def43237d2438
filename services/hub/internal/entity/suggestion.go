package entity

import "time"

type SuggestionStatus string

const (
	StatusPending     SuggestionStatus = "pending"
	StatusVoting      SuggestionStatus = "voting"
	StatusDevelopment SuggestionStatus = "development"
	StatusCompleted   SuggestionStatus = "completed"
)

// PublicStatuses are the statuses shown on the public board.
var PublicStatuses = []SuggestionStatus{StatusVoting, StatusDevelopment, StatusCompleted}

func (s SuggestionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVoting, StatusDevelopment, StatusCompleted:
		return true
	}
	return false
}

func (s SuggestionStatus) Public() bool {
	return s.Valid() && s != StatusPending
}

type Suggestion struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Position       *string          `json:"position"`
	CompanySegment *string          `json:"company_segment"`
	Email          *string          `json:"email"`
	Suggestion     string           `json:"suggestion"`
	Votes          int              `json:"votes"`
	Status         SuggestionStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

// SuggestionInput carries the fields of a submission or an administrative edit.
type SuggestionInput struct {
	Name           string           `json:"name"`
	Position       string           `json:"position"`
	CompanySegment string           `json:"company_segment"`
	Email          string           `json:"email"`
	Suggestion     string           `json:"suggestion"`
	Votes          *int             `json:"votes,omitempty"`
	Status         SuggestionStatus `json:"status,omitempty"`
}

// VoteState is the progress of a single vote attempt.
type VoteState string

const (
	VoteIdle       VoteState = "idle"
	VotePending    VoteState = "pending"
	VoteCommitted  VoteState = "committed"
	VoteRolledBack VoteState = "rolled_back"
)

type VoteResult struct {
	SuggestionID string    `json:"suggestion_id"`
	State        VoteState `json:"state"`
	Votes        int       `json:"votes"`
	Voted        bool      `json:"voted"`
	// AlreadyVoted is set when the guard or the uniqueness constraint found an earlier vote.
	AlreadyVoted bool `json:"already_voted"`
}

// BoardSnapshot is what a visitor sees of the co-create board.
type BoardSnapshot struct {
	Suggestions []*Suggestion `json:"suggestions"`
	Pending     []*Suggestion `json:"pending,omitempty"`
	VotedIDs    []string      `json:"voted_ids"`
}
