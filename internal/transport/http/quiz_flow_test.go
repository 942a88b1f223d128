package http_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"campus-quiz-service/internal/domain"
)

// seedQuestion walks the authoring flow up to a question with one preferred
// and one wrong answer, returning the ids the assertions need.
type seededQuiz struct {
	yearID     string
	subjectID  string
	questionID string
	rightID    string
	wrongID    string
}

func seedQuiz(t *testing.T, e *echo.Echo, teacherToken string) seededQuiz {
	t.Helper()
	var out seededQuiz

	rec := doJSON(t, e, http.MethodPost, "/quiz/add_course_year", teacherToken, echo.Map{"year": 2024})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add year: status %d body %s", rec.Code, rec.Body.String())
	}
	var yearResp struct {
		Year domain.Year `json:"year"`
	}
	decode(t, rec, &yearResp)
	out.yearID = yearResp.Year.ID

	rec = doJSON(t, e, http.MethodPost, "/quiz/add_subject", teacherToken, echo.Map{
		"name":   "Mathematics",
		"yearId": out.yearID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add subject: status %d body %s", rec.Code, rec.Body.String())
	}
	var subjectResp struct {
		Subject domain.Subject `json:"subject"`
	}
	decode(t, rec, &subjectResp)
	out.subjectID = subjectResp.Subject.ID

	rec = doJSON(t, e, http.MethodPost, "/quiz/add_question", teacherToken, echo.Map{
		"title":      "What is 2+2?",
		"questionNo": 1,
		"marks":      1,
		"subjectId":  out.subjectID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add question: status %d body %s", rec.Code, rec.Body.String())
	}
	var questionResp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, rec, &questionResp)
	out.questionID = questionResp.Data.ID

	rec = doJSON(t, e, http.MethodPost, "/quiz/add_answer", teacherToken, []echo.Map{
		{"title": "Four", "isPreferred": true, "questionId": out.questionID},
		{"title": "Five", "isPreferred": false, "questionId": out.questionID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add answers: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodGet, "/quiz/fetch_answers/"+out.questionID, teacherToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch answers: status %d body %s", rec.Code, rec.Body.String())
	}
	var answersResp struct {
		Answers []domain.Answer `json:"answers"`
	}
	decode(t, rec, &answersResp)
	if len(answersResp.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answersResp.Answers))
	}
	for _, a := range answersResp.Answers {
		if a.Preferred {
			out.rightID = a.ID
		} else {
			out.wrongID = a.ID
		}
	}
	if out.rightID == "" || out.wrongID == "" {
		t.Fatalf("expected one preferred and one plain answer: %+v", answersResp.Answers)
	}
	return out
}

func TestCatalogAuthoringFlow(t *testing.T) {
	e := newTestServer(t)
	token := registerTeacher(t, e, "teacher@example.com")
	seeded := seedQuiz(t, e, token)

	rec := doJSON(t, e, http.MethodGet, "/quiz/fetch_years", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch years: status %d body %s", rec.Code, rec.Body.String())
	}
	var yearsResp struct {
		Years []domain.Year `json:"years"`
	}
	decode(t, rec, &yearsResp)
	if len(yearsResp.Years) != 1 || yearsResp.Years[0].Value != 2024 {
		t.Fatalf("unexpected years %+v", yearsResp.Years)
	}

	rec = doJSON(t, e, http.MethodGet, "/quiz/fetch_subjects/"+seeded.yearID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch subjects: status %d body %s", rec.Code, rec.Body.String())
	}
	var subjectsResp struct {
		Subjects []domain.Subject `json:"subjects"`
	}
	decode(t, rec, &subjectsResp)
	if len(subjectsResp.Subjects) != 1 || subjectsResp.Subjects[0].Name != "Mathematics" {
		t.Fatalf("unexpected subjects %+v", subjectsResp.Subjects)
	}

	path := fmt.Sprintf("/quiz/fetch_questions?subject=%s&question_no=1", seeded.subjectID)
	rec = doJSON(t, e, http.MethodGet, path, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch question: status %d body %s", rec.Code, rec.Body.String())
	}
	var questionResp struct {
		Questions domain.Question `json:"questions"`
	}
	decode(t, rec, &questionResp)
	if questionResp.Questions.ID != seeded.questionID {
		t.Fatalf("unexpected question %+v", questionResp.Questions)
	}
}

func TestFetchSubjectsEmptyIsNotFound(t *testing.T) {
	e := newTestServer(t)
	token := registerTeacher(t, e, "teacher@example.com")

	rec := doJSON(t, e, http.MethodGet, "/quiz/fetch_subjects/no-such-year", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty listing, got %d body %s", rec.Code, rec.Body.String())
	}
	var env errorEnvelope
	decode(t, rec, &env)
	if env.Error.Field != "subjects" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestCatalogScopedPerTeacher(t *testing.T) {
	e := newTestServer(t)
	owner := registerTeacher(t, e, "owner@example.com")
	other := registerTeacher(t, e, "other@example.com")
	seeded := seedQuiz(t, e, owner)

	// The other teacher's listing of the same year comes back empty, hence 400.
	rec := doJSON(t, e, http.MethodGet, "/quiz/fetch_subjects/"+seeded.yearID, other, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateAnswerMovesPreference(t *testing.T) {
	e := newTestServer(t)
	token := registerTeacher(t, e, "teacher@example.com")
	seeded := seedQuiz(t, e, token)

	rec := doJSON(t, e, http.MethodPatch, "/quiz/update_answer/"+seeded.questionID, token, echo.Map{
		"answerId": seeded.wrongID,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update answer: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodGet, "/quiz/fetch_answers/"+seeded.questionID, token, nil)
	var answersResp struct {
		Answers []domain.Answer `json:"answers"`
	}
	decode(t, rec, &answersResp)
	preferred := 0
	for _, a := range answersResp.Answers {
		if a.Preferred {
			preferred++
			if a.ID != seeded.wrongID {
				t.Fatalf("preference on the wrong answer: %+v", a)
			}
		}
	}
	if preferred != 1 {
		t.Fatalf("expected exactly one preferred answer, got %d", preferred)
	}
}

func TestAttemptFlow(t *testing.T) {
	e := newTestServer(t)
	teacher := registerTeacher(t, e, "teacher@example.com")
	student := registerStudent(t, e, "alice@example.com", "EN12345678")
	seeded := seedQuiz(t, e, teacher)

	type attemptResp struct {
		Message   string              `json:"message"`
		IsCorrect bool                `json:"isCorrect"`
		Result    *domain.ScoreRecord `json:"result"`
	}

	rec := doJSON(t, e, http.MethodPost, "/quiz/attempt_question", student, echo.Map{"answerId": seeded.rightID})
	if rec.Code != http.StatusOK {
		t.Fatalf("attempt: status %d body %s", rec.Code, rec.Body.String())
	}
	var first attemptResp
	decode(t, rec, &first)
	if !first.IsCorrect || first.Result == nil {
		t.Fatalf("unexpected outcome %+v", first)
	}
	if first.Result.MarksObtained != 1 || first.Result.TotalMarks != 10 {
		t.Fatalf("unexpected score %+v", first.Result)
	}

	// No duplicate-attempt guard: the same correct answer scores again.
	rec = doJSON(t, e, http.MethodPost, "/quiz/attempt_question", student, echo.Map{"answerId": seeded.rightID})
	var second attemptResp
	decode(t, rec, &second)
	if second.Result == nil || second.Result.MarksObtained != 2 {
		t.Fatalf("unexpected score %+v", second.Result)
	}

	rec = doJSON(t, e, http.MethodPost, "/quiz/attempt_question", student, echo.Map{"answerId": seeded.wrongID})
	var wrong attemptResp
	decode(t, rec, &wrong)
	if wrong.IsCorrect || wrong.Result != nil {
		t.Fatalf("wrong answer must not score: %+v", wrong)
	}

	rec = doJSON(t, e, http.MethodGet, "/quiz/fetch_results/"+seeded.subjectID, student, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch results: status %d body %s", rec.Code, rec.Body.String())
	}
	var results struct {
		Results *domain.ScoreRecord `json:"results"`
	}
	decode(t, rec, &results)
	if results.Results == nil || results.Results.MarksObtained != 2 {
		t.Fatalf("unexpected results %+v", results.Results)
	}

	// Absent record reads back as null, not an error.
	rec = doJSON(t, e, http.MethodGet, "/quiz/fetch_results/no-such-subject", student, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch results absent: status %d body %s", rec.Code, rec.Body.String())
	}
	var absent struct {
		Results *domain.ScoreRecord `json:"results"`
	}
	decode(t, rec, &absent)
	if absent.Results != nil {
		t.Fatalf("expected null results, got %+v", absent.Results)
	}
}

func TestAttemptUnknownAnswer(t *testing.T) {
	e := newTestServer(t)
	student := registerStudent(t, e, "alice@example.com", "EN12345678")

	rec := doJSON(t, e, http.MethodPost, "/quiz/attempt_question", student, echo.Map{"answerId": "missing"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", rec.Code, rec.Body.String())
	}
	var env errorEnvelope
	decode(t, rec, &env)
	if env.Error.Field != "answer" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestAddYearValidationEnvelope(t *testing.T) {
	e := newTestServer(t)
	token := registerTeacher(t, e, "teacher@example.com")

	rec := doJSON(t, e, http.MethodPost, "/quiz/add_course_year", token, echo.Map{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body %s", rec.Code, rec.Body.String())
	}
	var env errorEnvelope
	decode(t, rec, &env)
	if env.Error.Field != "year" || env.Error.Status != http.StatusBadRequest {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestAddAnswerAcceptsSingleObject(t *testing.T) {
	e := newTestServer(t)
	token := registerTeacher(t, e, "teacher@example.com")
	seeded := seedQuiz(t, e, token)

	rec := doJSON(t, e, http.MethodPost, "/quiz/add_answer", token, echo.Map{
		"title":      "Maybe six",
		"questionId": seeded.questionID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add single answer: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodGet, "/quiz/fetch_answers/"+seeded.questionID, token, nil)
	var answersResp struct {
		Answers []domain.Answer `json:"answers"`
	}
	decode(t, rec, &answersResp)
	if len(answersResp.Answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(answersResp.Answers))
	}
}
