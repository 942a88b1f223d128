package app

import (
	"context"
	"errors"

	"campus-quiz-service/internal/domain"
)

// attemptTotalMarks matches the reference backend, which records every
// subject tally out of a fixed 10 regardless of the question's own marks.
// Kept as-is; deriving it from Question.Marks would change client contracts.
const attemptTotalMarks = 10

// AttemptService runs the scoring flow. All state lives in the score store;
// the service holds no per-student state between calls.
type AttemptService struct {
	answers AnswerResolver
	catalog CatalogRepository
	scores  ScoreRepository
	feed    *ScoreFeed // may be nil
}

func NewAttemptService(answers AnswerResolver, catalog CatalogRepository, scores ScoreRepository, feed *ScoreFeed) *AttemptService {
	return &AttemptService{answers: answers, catalog: catalog, scores: scores, feed: feed}
}

// Attempt checks the chosen answer and, when it is the question's preferred
// one, adds one mark to the student's tally for the owning subject. The
// increment is a single atomic upsert in the store, so concurrent correct
// attempts on the same subject all land. A wrong answer never creates or
// mutates a record. Nothing tracks which questions were attempted: the tally
// is a pure rolling counter, so re-attempting a correct answer scores again.
func (s *AttemptService) Attempt(ctx context.Context, studentID, answerID string) (domain.AttemptOutcome, error) {
	if answerID == "" {
		return domain.AttemptOutcome{}, domain.NewValidationError("answerId", "answerId is required")
	}

	answer, err := s.answers.AnswerByID(ctx, answerID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.AttemptOutcome{}, domain.NewNotFoundError("answer")
	}
	if err != nil {
		return domain.AttemptOutcome{}, domain.NewPersistenceError("resolve answer", err)
	}

	question, err := s.catalog.QuestionByID(ctx, answer.QuestionID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.AttemptOutcome{}, domain.NewNotFoundError("question")
	}
	if err != nil {
		return domain.AttemptOutcome{}, domain.NewPersistenceError("resolve question", err)
	}

	if !answer.Preferred {
		return domain.AttemptOutcome{Correct: false, Result: nil}, nil
	}

	record, err := s.scores.ApplyCorrectAttempt(ctx, studentID, question.SubjectID, attemptTotalMarks)
	if err != nil {
		return domain.AttemptOutcome{}, domain.NewPersistenceError("apply attempt", err)
	}
	if s.feed != nil {
		s.feed.Publish(record)
	}
	return domain.AttemptOutcome{Correct: true, Result: &record}, nil
}

// FetchResult reads the student's tally for a subject. No record is a nil
// result, not an error; the listing endpoints' NotFound-on-empty shape does
// not apply here.
func (s *AttemptService) FetchResult(ctx context.Context, studentID, subjectID string) (*domain.ScoreRecord, error) {
	record, err := s.scores.ScoreBySubject(ctx, studentID, subjectID)
	if err != nil {
		return nil, domain.NewPersistenceError("fetch result", err)
	}
	return record, nil
}
