// Package http exposes the service over REST (echo) plus one websocket
// endpoint streaming score updates.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"campus-quiz-service/internal/app"
	"campus-quiz-service/internal/auth"
	"campus-quiz-service/internal/domain"
)

// Deps carries the constructor-injected collaborators of the HTTP layer.
type Deps struct {
	Gate     *auth.Gate
	Catalog  *app.CatalogService
	Attempts *app.AttemptService
	Accounts *app.AccountService
	Feed     *app.ScoreFeed
	// DisableRequestLogs keeps handler test output quiet.
	DisableRequestLogs bool
}

// New builds the routed handler. The caller owns the listener lifecycle.
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	if !deps.DisableRequestLogs {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})

	accounts := &accountHandler{accounts: deps.Accounts}
	student := e.Group("/student")
	student.POST("/register", accounts.registerStudent)
	student.POST("/login", accounts.loginStudent)
	student.GET("/profile", accounts.profile, authenticated(deps.Gate), requireRole(domain.RoleStudent))

	teacher := e.Group("/teacher")
	teacher.POST("/register", accounts.registerTeacher)
	teacher.POST("/login", accounts.loginTeacher)
	teacher.GET("/profile", accounts.profile, authenticated(deps.Gate), requireRole(domain.RoleTeacher))

	quizH := &quizHandler{catalog: deps.Catalog, attempts: deps.Attempts}
	feedH := newScoreFeedHandler(deps.Feed)

	quiz := e.Group("/quiz", authenticated(deps.Gate))
	onlyTeacher := requireRole(domain.RoleTeacher)
	onlyStudent := requireRole(domain.RoleStudent)

	quiz.POST("/add_course_year", quizH.addYear, onlyTeacher)
	quiz.GET("/fetch_years", quizH.listYears, onlyTeacher)
	quiz.POST("/add_subject", quizH.addSubject, onlyTeacher)
	quiz.GET("/fetch_subjects/:year", quizH.listSubjects, onlyTeacher)
	quiz.GET("/fetch_subject/:subject", quizH.getSubject)
	quiz.POST("/add_question", quizH.addQuestion, onlyTeacher)
	quiz.GET("/fetch_questions", quizH.getQuestion, onlyTeacher)
	quiz.POST("/add_answer", quizH.addAnswers, onlyTeacher)
	quiz.GET("/fetch_answers/:question", quizH.listAnswers, onlyTeacher)
	quiz.PATCH("/update_answer/:question", quizH.setPreferredAnswer, onlyTeacher)
	quiz.POST("/attempt_question", quizH.attemptQuestion, onlyStudent)
	quiz.GET("/fetch_results/:subject", quizH.fetchResults, onlyStudent)
	quiz.GET("/ws/results/:subject", feedH.serve)

	return e
}
