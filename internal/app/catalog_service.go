package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"campus-quiz-service/internal/domain"
	"campus-quiz-service/internal/validate"
)

// YearInput is the payload for adding a course year.
type YearInput struct {
	Value int `json:"year" validate:"required"`
}

// SubjectInput is the payload for adding a subject under a year.
type SubjectInput struct {
	Name   string `json:"name" validate:"required,min=3"`
	YearID string `json:"yearId" validate:"required"`
}

// QuestionInput is the payload for adding a question under a subject. Titles
// have no minimum length; "Q1" is a legitimate question title.
type QuestionInput struct {
	Title     string `json:"title" validate:"required"`
	Number    int    `json:"questionNo" validate:"required"`
	Marks     int    `json:"marks" validate:"required"`
	SubjectID string `json:"subjectId" validate:"required"`
}

// AnswerInput is one element of an add-answers batch.
type AnswerInput struct {
	Title      string `json:"title" validate:"required,min=3"`
	Preferred  bool   `json:"isPreferred"`
	QuestionID string `json:"questionId" validate:"required"`
}

// CatalogService owns the year/subject/question/answer hierarchy. It is
// stateless; correctness relies on the repository's per-row primitives.
type CatalogService struct {
	catalog CatalogRepository
	answers AnswerResolver // may be nil; used only to invalidate after updates
	now     func() time.Time
	newID   func() string
}

func NewCatalogService(catalog CatalogRepository, answers AnswerResolver) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		answers: answers,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// AddYear records a course year for the owning teacher. Duplicate values are
// allowed; the reference system never de-duplicated years.
func (s *CatalogService) AddYear(ctx context.Context, ownerID string, in YearInput) (domain.Year, error) {
	if err := validate.Struct(in); err != nil {
		return domain.Year{}, err
	}
	year := domain.Year{
		ID:        s.newID(),
		Value:     in.Value,
		OwnerID:   ownerID,
		CreatedAt: s.now(),
	}
	if err := s.catalog.InsertYear(ctx, year); err != nil {
		return domain.Year{}, domain.NewPersistenceError("insert year", err)
	}
	return year, nil
}

// ListYears returns every year the teacher has recorded.
func (s *CatalogService) ListYears(ctx context.Context, ownerID string) ([]domain.Year, error) {
	years, err := s.catalog.YearsByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.NewPersistenceError("list years", err)
	}
	return years, nil
}

// AddSubject records a subject under a year for the owning teacher.
func (s *CatalogService) AddSubject(ctx context.Context, ownerID string, in SubjectInput) (domain.Subject, error) {
	if err := validate.Struct(in); err != nil {
		return domain.Subject{}, err
	}
	subject := domain.Subject{
		ID:        s.newID(),
		Name:      in.Name,
		YearID:    in.YearID,
		OwnerID:   ownerID,
		CreatedAt: s.now(),
	}
	if err := s.catalog.InsertSubject(ctx, subject); err != nil {
		return domain.Subject{}, domain.NewPersistenceError("insert subject", err)
	}
	return subject, nil
}

// ListSubjects returns the subjects a teacher recorded under a year. Zero
// matches is reported as NotFound, not as an empty success; callers of the
// original API depend on that shape.
func (s *CatalogService) ListSubjects(ctx context.Context, ownerID, yearID string) ([]domain.Subject, error) {
	subjects, err := s.catalog.SubjectsByYear(ctx, ownerID, yearID)
	if err != nil {
		return nil, domain.NewPersistenceError("list subjects", err)
	}
	if len(subjects) == 0 {
		return nil, domain.NewNotFoundError("subjects")
	}
	return subjects, nil
}

// GetSubject looks a subject up by id regardless of owner.
func (s *CatalogService) GetSubject(ctx context.Context, id string) (domain.Subject, error) {
	subject, err := s.catalog.SubjectByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Subject{}, domain.NewNotFoundError("subject")
	}
	if err != nil {
		return domain.Subject{}, domain.NewPersistenceError("get subject", err)
	}
	return subject, nil
}

// AddQuestion records a question under a subject for the owning teacher.
func (s *CatalogService) AddQuestion(ctx context.Context, ownerID string, in QuestionInput) (domain.Question, error) {
	if err := validate.Struct(in); err != nil {
		return domain.Question{}, err
	}
	question := domain.Question{
		ID:        s.newID(),
		Title:     in.Title,
		Number:    in.Number,
		Marks:     in.Marks,
		SubjectID: in.SubjectID,
		OwnerID:   ownerID,
		CreatedAt: s.now(),
	}
	if err := s.catalog.InsertQuestion(ctx, question); err != nil {
		return domain.Question{}, domain.NewPersistenceError("insert question", err)
	}
	return question, nil
}

// GetQuestion is an exact-match lookup by (subject, question number), scoped
// to the owning teacher.
func (s *CatalogService) GetQuestion(ctx context.Context, ownerID, subjectID string, number int) (domain.Question, error) {
	question, err := s.catalog.QuestionByNumber(ctx, ownerID, subjectID, number)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Question{}, domain.NewNotFoundError("question")
	}
	if err != nil {
		return domain.Question{}, domain.NewPersistenceError("get question", err)
	}
	return question, nil
}

// AddAnswers validates the whole batch before inserting any of it. The bulk
// insert itself is not atomic across store failures; a partial write surfaces
// as a persistence error with the committed count.
func (s *CatalogService) AddAnswers(ctx context.Context, batch []AnswerInput) (int, error) {
	if len(batch) == 0 {
		return 0, domain.NewValidationError("answers", "at least one answer is required")
	}
	for _, in := range batch {
		if err := validate.Struct(in); err != nil {
			return 0, err
		}
	}

	now := s.now()
	answers := make([]domain.Answer, 0, len(batch))
	for _, in := range batch {
		answers = append(answers, domain.Answer{
			ID:         s.newID(),
			Title:      in.Title,
			Preferred:  in.Preferred,
			QuestionID: in.QuestionID,
			CreatedAt:  now,
		})
	}
	count, err := s.catalog.InsertAnswers(ctx, answers)
	if err != nil {
		return count, domain.NewPersistenceError("insert answers", err)
	}
	return count, nil
}

// ListAnswers returns the answers of a question, with the same NotFound-on-
// empty shape as ListSubjects.
func (s *CatalogService) ListAnswers(ctx context.Context, questionID string) ([]domain.Answer, error) {
	answers, err := s.catalog.AnswersByQuestion(ctx, questionID)
	if err != nil {
		return nil, domain.NewPersistenceError("list answers", err)
	}
	if len(answers) == 0 {
		return nil, domain.NewNotFoundError("answers")
	}
	return answers, nil
}

// SetPreferredAnswer marks exactly the answer with answerID as preferred and
// demotes every sibling in one repository statement; no reader observes two
// preferred answers. An answerID that does not belong to the question demotes
// all and promotes none. Cached answers for the question are dropped after
// the update.
func (s *CatalogService) SetPreferredAnswer(ctx context.Context, questionID, answerID string) error {
	if answerID == "" {
		return domain.NewValidationError("answerId", "answerId is required")
	}
	if err := s.catalog.SetPreferredAnswer(ctx, questionID, answerID); err != nil {
		return domain.NewPersistenceError("update answer", err)
	}
	if s.answers != nil {
		answers, err := s.catalog.AnswersByQuestion(ctx, questionID)
		if err != nil {
			return domain.NewPersistenceError("update answer", err)
		}
		ids := make([]string, 0, len(answers))
		for _, a := range answers {
			ids = append(ids, a.ID)
		}
		if err := s.answers.Invalidate(ctx, ids...); err != nil {
			return domain.NewPersistenceError("invalidate answers", err)
		}
	}
	return nil
}
