package domain

import "time"

// Roles carried by authenticated identities on the platform.
const (
	RoleStudent = "student"
	RoleCompany = "company"
	RoleAdmin   = "admin"
)

// Identity is a verified caller as resolved by the auth layer.
type Identity struct {
	ID   string
	Role string
}

// QuestionKind selects the grading rule applied to a question.
type QuestionKind string

const (
	MultipleChoice QuestionKind = "multiple-choice"
	FreeText       QuestionKind = "text"
	Boolean        QuestionKind = "boolean"
)

// Option is one selectable answer of a multiple-choice question.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question describes one quiz question. Questions carry no identifier of
// their own; position within the quiz is the matching contract.
type Question struct {
	Text          string       `json:"question"`
	Kind          QuestionKind `json:"type"`
	Options       []Option     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Points        int          `json:"points"` // defaults to 1 if zero
}

// Quiz is the graded content embedded in a problem. TimeLimit is
// informational; elapsed-time enforcement happens client-side.
type Quiz struct {
	Enabled      bool       `json:"enabled"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	Questions    []Question `json:"questions"`
	TimeLimit    int        `json:"timeLimit"`    // minutes
	PassingScore int        `json:"passingScore"` // percent, defaults to 70 if zero
}

// Problem is the slice of the posted challenge this service reads.
// Problem CRUD lives elsewhere; only the embedded quiz matters here.
type Problem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Quiz  *Quiz  `json:"quiz,omitempty"`
}

// GradedAnswer records the verdict for one question position.
type GradedAnswer struct {
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
	IsCorrect     bool   `json:"isCorrect"`
	Points        int    `json:"points"`
}

// Response is the single stored grading outcome for a (problem, student)
// pair. A resubmission replaces it in place; two rows for the same pair
// must never exist.
type Response struct {
	ProblemID  string         `json:"problemId"`
	StudentID  string         `json:"studentId"`
	Answers    []GradedAnswer `json:"answers"`
	TotalScore int            `json:"totalScore"`
	MaxScore   int            `json:"maxScore"`
	Percentage int            `json:"percentage"`
	Passed     bool           `json:"passed"`
	TimeSpent  int            `json:"timeSpent"` // seconds, client-reported
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Standing is one leaderboard row derived from stored responses.
type Standing struct {
	StudentID  string `json:"studentId"`
	TotalScore int    `json:"totalScore"`
	Percentage int    `json:"percentage"`
	Passed     bool   `json:"passed"`
}

// Standings is the ordered scoreboard for one problem.
type Standings struct {
	ProblemID string     `json:"problemId"`
	Entries   []Standing `json:"entries"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
