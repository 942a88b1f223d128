package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-quiz-service/internal/app"
	"campus-quiz-service/internal/domain"
)

type accountHandler struct {
	accounts *app.AccountService
}

func (h *accountHandler) registerStudent(c echo.Context) error {
	var in app.StudentInput
	if err := c.Bind(&in); err != nil {
		return domain.NewValidationError("student", "invalid registration payload")
	}
	creds, err := h.accounts.RegisterStudent(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, credentialsResponse(creds, "student"))
}

func (h *accountHandler) loginStudent(c echo.Context) error {
	return h.login(c, domain.RoleStudent, "student")
}

func (h *accountHandler) registerTeacher(c echo.Context) error {
	var in app.TeacherInput
	if err := c.Bind(&in); err != nil {
		return domain.NewValidationError("teacher", "invalid registration payload")
	}
	creds, err := h.accounts.RegisterTeacher(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, credentialsResponse(creds, "teacher"))
}

func (h *accountHandler) loginTeacher(c echo.Context) error {
	return h.login(c, domain.RoleTeacher, "teacher")
}

func (h *accountHandler) login(c echo.Context, role domain.Role, key string) error {
	var in app.LoginInput
	if err := c.Bind(&in); err != nil {
		return domain.NewValidationError(key+"-login", "invalid login payload")
	}
	creds, err := h.accounts.Login(c.Request().Context(), role, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, credentialsResponse(creds, key))
}

func (h *accountHandler) profile(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	acct, err := h.accounts.Profile(c.Request().Context(), claims.AccountID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{string(acct.Role): acct})
}

func credentialsResponse(creds app.Credentials, key string) echo.Map {
	return echo.Map{
		"accessToken": "Bearer " + creds.Token,
		key:           creds.Account,
		"expires_in":  creds.TTL.String(),
	}
}
