package app

import (
	"context"

	"campus-quiz-service/internal/domain"
)

// CatalogRepository abstracts persistence for the teacher-authored hierarchy
// (years, subjects, questions, answers). Lookups with no match return
// domain.ErrNotFound.
type CatalogRepository interface {
	InsertYear(ctx context.Context, year domain.Year) error
	YearsByOwner(ctx context.Context, ownerID string) ([]domain.Year, error)

	InsertSubject(ctx context.Context, subject domain.Subject) error
	SubjectsByYear(ctx context.Context, ownerID, yearID string) ([]domain.Subject, error)
	SubjectByID(ctx context.Context, id string) (domain.Subject, error)

	InsertQuestion(ctx context.Context, question domain.Question) error
	QuestionByNumber(ctx context.Context, ownerID, subjectID string, number int) (domain.Question, error)
	QuestionByID(ctx context.Context, id string) (domain.Question, error)

	InsertAnswers(ctx context.Context, answers []domain.Answer) (int, error)
	AnswersByQuestion(ctx context.Context, questionID string) ([]domain.Answer, error)
	AnswerByID(ctx context.Context, id string) (domain.Answer, error)

	// SetPreferredAnswer promotes answerID and demotes every sibling of
	// questionID in a single statement.
	SetPreferredAnswer(ctx context.Context, questionID, answerID string) error
}

// ScoreRepository persists the per-(student, subject) tallies.
type ScoreRepository interface {
	// ScoreBySubject returns (nil, nil) when the student has no record yet.
	ScoreBySubject(ctx context.Context, studentID, subjectID string) (*domain.ScoreRecord, error)

	// ApplyCorrectAttempt upserts the record for (studentID, subjectID),
	// adding one mark atomically. Two concurrent calls must both land.
	ApplyCorrectAttempt(ctx context.Context, studentID, subjectID string, totalMarks int) (domain.ScoreRecord, error)
}

// AccountRepository persists registered students and teachers.
type AccountRepository interface {
	InsertAccount(ctx context.Context, acct domain.Account) error
	AccountByEmail(ctx context.Context, role domain.Role, email string) (domain.Account, error)
	AccountByEnrollmentNo(ctx context.Context, enrollmentNo string) (domain.Account, error)
	AccountByID(ctx context.Context, id string) (domain.Account, error)
}

// AnswerResolver serves the attempt path's answer lookups, typically through
// a cache in front of the catalog store.
type AnswerResolver interface {
	AnswerByID(ctx context.Context, id string) (domain.Answer, error)
	// Invalidate drops cached entries for the given answer ids.
	Invalidate(ctx context.Context, ids ...string) error
}
