package app_test

import (
	"context"
	"errors"
	"testing"

	"campus-quiz-service/internal/app"
	"campus-quiz-service/internal/domain"
	"campus-quiz-service/internal/infra/memory"
)

const teacherID = "teacher-1"

func newCatalogService() (*app.CatalogService, *memory.Store) {
	store := memory.NewStore()
	return app.NewCatalogService(store, nil), store
}

func TestAddYearRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalogService()

	year, err := svc.AddYear(ctx, teacherID, app.YearInput{Value: 2024})
	if err != nil {
		t.Fatalf("add year: %v", err)
	}
	if year.Value != 2024 {
		t.Fatalf("expected year 2024, got %d", year.Value)
	}

	years, err := svc.ListYears(ctx, teacherID)
	if err != nil {
		t.Fatalf("list years: %v", err)
	}
	if len(years) != 1 || years[0].ID != year.ID {
		t.Fatalf("expected listing to include the new year, got %+v", years)
	}
}

func TestAddYearRequiresValue(t *testing.T) {
	svc, _ := newCatalogService()

	_, err := svc.AddYear(context.Background(), teacherID, app.YearInput{})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "year" {
		t.Fatalf("expected field year, got %q", verr.Field)
	}
}

func TestAddSubjectValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalogService()

	var verr *domain.ValidationError
	if _, err := svc.AddSubject(ctx, teacherID, app.SubjectInput{Name: "ab", YearID: "y1"}); !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
	if _, err := svc.AddSubject(ctx, teacherID, app.SubjectInput{Name: "maths"}); !errors.As(err, &verr) || verr.Field != "yearId" {
		t.Fatalf("expected yearId validation error, got %v", err)
	}
}

func TestListSubjectsEmptyIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalogService()

	// Zero matches surfaces as NotFound, not as an empty success; clients of
	// the original API depend on the error shape.
	_, err := svc.ListSubjects(ctx, teacherID, "year-without-subjects")
	var nerr *domain.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected not found, got %v", err)
	}
	if nerr.Resource != "subjects" {
		t.Fatalf("expected subjects resource, got %q", nerr.Resource)
	}
}

func TestListSubjectsScopedToOwnerAndYear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalogService()

	year, err := svc.AddYear(ctx, teacherID, app.YearInput{Value: 2024})
	if err != nil {
		t.Fatalf("add year: %v", err)
	}
	if _, err := svc.AddSubject(ctx, teacherID, app.SubjectInput{Name: "maths", YearID: year.ID}); err != nil {
		t.Fatalf("add subject: %v", err)
	}
	if _, err := svc.AddSubject(ctx, "other-teacher", app.SubjectInput{Name: "physics", YearID: year.ID}); err != nil {
		t.Fatalf("add subject: %v", err)
	}

	subjects, err := svc.ListSubjects(ctx, teacherID, year.ID)
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(subjects) != 1 || subjects[0].Name != "maths" {
		t.Fatalf("expected only the owner's subject, got %+v", subjects)
	}
}

func TestGetSubjectByID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalogService()

	subject, err := svc.AddSubject(ctx, teacherID, app.SubjectInput{Name: "maths", YearID: "y1"})
	if err != nil {
		t.Fatalf("add subject: %v", err)
	}

	got, err := svc.GetSubject(ctx, subject.ID)
	if err != nil {
		t.Fatalf("get subject: %v", err)
	}
	if got.ID != subject.ID {
		t.Fatalf("expected subject %s, got %s", subject.ID, got.ID)
	}

	var nerr *domain.NotFoundError
	if _, err := svc.GetSubject(ctx, "missing"); !errors.As(err, &nerr) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetQuestionExactMatch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalogService()

	question, err := svc.AddQuestion(ctx, teacherID, app.QuestionInput{
		Title:     "What is 2 + 2?",
		Number:    1,
		Marks:     5,
		SubjectID: "s1",
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}

	got, err := svc.GetQuestion(ctx, teacherID, "s1", 1)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if got.ID != question.ID {
		t.Fatalf("expected question %s, got %s", question.ID, got.ID)
	}

	var nerr *domain.NotFoundError
	if _, err := svc.GetQuestion(ctx, teacherID, "s1", 2); !errors.As(err, &nerr) {
		t.Fatalf("expected not found for other number, got %v", err)
	}
	if _, err := svc.GetQuestion(ctx, "other-teacher", "s1", 1); !errors.As(err, &nerr) {
		t.Fatalf("expected not found for other owner, got %v", err)
	}
}

func TestAddQuestionAcceptsShortTitle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalogService()

	question, err := svc.AddQuestion(ctx, teacherID, app.QuestionInput{
		Title:     "Q1",
		Number:    1,
		Marks:     5,
		SubjectID: "s1",
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if question.Title != "Q1" {
		t.Fatalf("expected title Q1, got %q", question.Title)
	}

	var verr *domain.ValidationError
	if _, err := svc.AddQuestion(ctx, teacherID, app.QuestionInput{Number: 1, Marks: 5, SubjectID: "s1"}); !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}
}

func TestAddAnswersValidatesWholeBatchFirst(t *testing.T) {
	ctx := context.Background()
	svc, store := newCatalogService()

	_, err := svc.AddAnswers(ctx, []app.AnswerInput{
		{Title: "Four", QuestionID: "q1"},
		{Title: "x", QuestionID: "q1"}, // too short, whole batch must fail
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	answers, err := store.AnswersByQuestion(ctx, "q1")
	if err != nil {
		t.Fatalf("answers by question: %v", err)
	}
	if len(answers) != 0 {
		t.Fatalf("expected nothing inserted on validation failure, got %d", len(answers))
	}
}

func TestListAnswersEmptyIsNotFound(t *testing.T) {
	svc, _ := newCatalogService()

	var nerr *domain.NotFoundError
	if _, err := svc.ListAnswers(context.Background(), "q-none"); !errors.As(err, &nerr) || nerr.Resource != "answers" {
		t.Fatalf("expected answers not found, got %v", err)
	}
}

func TestSetPreferredAnswerExactlyOne(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalogService()

	count, err := svc.AddAnswers(ctx, []app.AnswerInput{
		{Title: "Three", Preferred: true, QuestionID: "q1"},
		{Title: "Four", QuestionID: "q1"},
		{Title: "Five", QuestionID: "q1"},
	})
	if err != nil {
		t.Fatalf("add answers: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 inserted, got %d", count)
	}

	answers, err := svc.ListAnswers(ctx, "q1")
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	var target string
	for _, a := range answers {
		if a.Title == "Four" {
			target = a.ID
		}
	}

	if err := svc.SetPreferredAnswer(ctx, "q1", target); err != nil {
		t.Fatalf("set preferred: %v", err)
	}
	assertSinglePreferred(t, svc, "q1", target)

	// Idempotent: applying the same update twice ends in the same state.
	if err := svc.SetPreferredAnswer(ctx, "q1", target); err != nil {
		t.Fatalf("set preferred again: %v", err)
	}
	assertSinglePreferred(t, svc, "q1", target)
}

func TestSetPreferredAnswerForeignIDDemotesAll(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalogService()

	if _, err := svc.AddAnswers(ctx, []app.AnswerInput{
		{Title: "Three", Preferred: true, QuestionID: "q1"},
		{Title: "Four", QuestionID: "q1"},
	}); err != nil {
		t.Fatalf("add answers: %v", err)
	}

	if err := svc.SetPreferredAnswer(ctx, "q1", "answer-of-another-question"); err != nil {
		t.Fatalf("set preferred: %v", err)
	}

	answers, err := svc.ListAnswers(ctx, "q1")
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	for _, a := range answers {
		if a.Preferred {
			t.Fatalf("expected every answer demoted, got %+v", a)
		}
	}
}

func TestSetPreferredAnswerRequiresAnswerID(t *testing.T) {
	svc, _ := newCatalogService()

	var verr *domain.ValidationError
	if err := svc.SetPreferredAnswer(context.Background(), "q1", ""); !errors.As(err, &verr) || verr.Field != "answerId" {
		t.Fatalf("expected answerId validation error, got %v", err)
	}
}

func assertSinglePreferred(t *testing.T, svc *app.CatalogService, questionID, wantID string) {
	t.Helper()
	answers, err := svc.ListAnswers(context.Background(), questionID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	preferred := 0
	for _, a := range answers {
		if a.Preferred {
			preferred++
			if a.ID != wantID {
				t.Fatalf("expected %s preferred, got %s", wantID, a.ID)
			}
		}
	}
	if preferred != 1 {
		t.Fatalf("expected exactly one preferred answer, got %d", preferred)
	}
}
