package domain

import "time"

// Role discriminates the two account kinds.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Year is a course year authored by a teacher. Write-once.
type Year struct {
	ID        string    `json:"id"`
	Value     int       `json:"year"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subject belongs to a Year and is scoped to the teacher who created it.
type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	YearID    string    `json:"yearId"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Question belongs to a Subject. (SubjectID, Number) identifies at most one
// question per owner.
type Question struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Number    int       `json:"questionNo"`
	Marks     int       `json:"marks"`
	SubjectID string    `json:"subjectId"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Answer is one choice of a Question. At most one answer per question carries
// Preferred=true; SetPreferredAnswer maintains the invariant.
type Answer struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Preferred  bool      `json:"isPreferred"`
	QuestionID string    `json:"questionId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ScoreRecord is the rolling per-(student, subject) tally. It is the only
// entity mutated after creation, and only via an atomic upsert-increment.
type ScoreRecord struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	SubjectID     string    `json:"subjectId"`
	TotalMarks    int       `json:"totalMarks"`
	MarksObtained int       `json:"marksObtained"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Account is a registered student or teacher. PasswordHash never appears in
// a response body.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	EnrollmentNo string    `json:"enrollmentNo,omitempty"`
	Branch       string    `json:"branch,omitempty"`
	Year         int       `json:"year,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AttemptOutcome is the result of a student answering a question. Result is
// nil for a wrong answer; a wrong attempt never touches the score.
type AttemptOutcome struct {
	Correct bool         `json:"isCorrect"`
	Result  *ScoreRecord `json:"result"`
}
