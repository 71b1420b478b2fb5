package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName mirrors the derived full_name field the API exposes.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) MarshalJSON() ([]byte, error) {
	type alias User

	return json.Marshal(struct {
		alias
		FullName string `json:"full_name"`
	}{
		alias:    alias(u),
		FullName: u.FullName(),
	})
}

type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Value       float64   `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Questionnaire struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Author            string         `json:"author"`
	StandardFrequency string         `json:"standard_frequency"`
	Description       string         `json:"description"`
	ScoringSchema     map[string]any `json:"scoring_schema"`
	Questions         map[string]any `json:"questions"`
}

// SurveyResponse is a submitted answer set for a questionnaire. Date is set
// server-side when the record is created.
type SurveyResponse struct {
	ID        string         `json:"id"`
	Date      time.Time      `json:"date"`
	Responses map[string]any `json:"responses"`
	Scores    map[string]any `json:"scores"`
}

// Message is the payload published to the mail queue.
type Message struct {
	Email   string `json:"to"`
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
}
