package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"campus-quiz-service/internal/app"
	"campus-quiz-service/internal/domain"
)

type quizHandler struct {
	catalog  *app.CatalogService
	attempts *app.AttemptService
}

func (h *quizHandler) addYear(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	var in app.YearInput
	if err := c.Bind(&in); err != nil {
		return domain.NewValidationError("year", "enter year please")
	}
	year, err := h.catalog.AddYear(c.Request().Context(), claims.AccountID(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Year Saved",
		"year":    year,
	})
}

func (h *quizHandler) listYears(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	years, err := h.catalog.ListYears(c.Request().Context(), claims.AccountID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Years",
		"years":   years,
	})
}

func (h *quizHandler) addSubject(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	var in app.SubjectInput
	if err := c.Bind(&in); err != nil {
		return domain.NewValidationError("subject", "invalid subject payload")
	}
	subject, err := h.catalog.AddSubject(c.Request().Context(), claims.AccountID(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Subject Saved",
		"subject": subject,
	})
}

func (h *quizHandler) listSubjects(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	subjects, err := h.catalog.ListSubjects(c.Request().Context(), claims.AccountID(), c.Param("year"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Subjects",
		"subjects": subjects,
	})
}

func (h *quizHandler) getSubject(c echo.Context) error {
	subject, err := h.catalog.GetSubject(c.Request().Context(), c.Param("subject"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Subject",
		"subject": subject,
	})
}

func (h *quizHandler) addQuestion(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	var in app.QuestionInput
	if err := c.Bind(&in); err != nil {
		return domain.NewValidationError("question", "invalid question payload")
	}
	question, err := h.catalog.AddQuestion(c.Request().Context(), claims.AccountID(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Question Saved",
		"data": echo.Map{
			"id":       question.ID,
			"question": question,
		},
	})
}

func (h *quizHandler) getQuestion(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	subjectID := c.QueryParam("subject")
	if subjectID == "" {
		return domain.NewValidationError("subject", "subject is required")
	}
	rawNumber := c.QueryParam("question_no")
	if rawNumber == "" {
		return domain.NewValidationError("question_no", "question_no is required")
	}
	number, err := strconv.Atoi(rawNumber)
	if err != nil {
		return domain.NewValidationError("question_no", "question_no must be a number")
	}
	question, err := h.catalog.GetQuestion(c.Request().Context(), claims.AccountID(), subjectID, number)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Questions",
		"questions": question,
	})
}

// addAnswers accepts either a single answer object or a batch array, the way
// clients of the original endpoint posted them.
func (h *quizHandler) addAnswers(c echo.Context) error {
	var raw json.RawMessage
	if err := c.Bind(&raw); err != nil {
		return domain.NewValidationError("answer", "invalid answer payload")
	}

	var batch []app.AnswerInput
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &batch); err != nil {
			return domain.NewValidationError("answer", "invalid answer payload")
		}
	} else {
		var single app.AnswerInput
		if err := json.Unmarshal(raw, &single); err != nil {
			return domain.NewValidationError("answer", "invalid answer payload")
		}
		batch = []app.AnswerInput{single}
	}

	if _, err := h.catalog.AddAnswers(c.Request().Context(), batch); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Answer Saved",
	})
}

func (h *quizHandler) listAnswers(c echo.Context) error {
	answers, err := h.catalog.ListAnswers(c.Request().Context(), c.Param("question"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Answers",
		"answers": answers,
	})
}

type updateAnswerRequest struct {
	AnswerID string `json:"answerId"`
}

func (h *quizHandler) setPreferredAnswer(c echo.Context) error {
	var req updateAnswerRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("answerId", "invalid answer payload")
	}
	if err := h.catalog.SetPreferredAnswer(c.Request().Context(), c.Param("question"), req.AnswerID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Answer Updated",
	})
}

type attemptRequest struct {
	AnswerID string `json:"answerId"`
}

func (h *quizHandler) attemptQuestion(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	var req attemptRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("answerId", "invalid attempt payload")
	}
	outcome, err := h.attempts.Attempt(c.Request().Context(), claims.AccountID(), req.AnswerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Question Attempted",
		"isCorrect": outcome.Correct,
		"result":    outcome.Result,
	})
}

func (h *quizHandler) fetchResults(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	record, err := h.attempts.FetchResult(c.Request().Context(), claims.AccountID(), c.Param("subject"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Quiz Results",
		"results": record,
	})
}
