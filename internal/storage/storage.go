package storage

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("user already exists")
	ErrResourceNotFound      = errors.New("resource not found")
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrResponseNotFound      = errors.New("response not found")
)

// Update structs carry partial changes; nil fields are left untouched.

type UserUpdate struct {
	Email     *string
	PassHash  []byte
	FirstName *string
	LastName  *string
}

type ResourceUpdate struct {
	Title       *string
	Description *string
	Value       *float64
}

type QuestionnaireUpdate struct {
	Title             *string
	Author            *string
	StandardFrequency *string
	Description       *string
	ScoringSchema     map[string]any
	Questions         map[string]any
}

type ResponseUpdate struct {
	Responses map[string]any
	Scores    map[string]any
}
