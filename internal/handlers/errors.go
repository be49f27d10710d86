package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"imeivault/internal/model"
)

// HTTPErrorHandler renders engine errors from their kind. Clients get the
// status code as the category; message text is informative only.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal error"

	switch model.KindOf(err) {
	case model.KindValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case model.KindUnauthorized:
		status = http.StatusForbidden
		message = err.Error()
	case model.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case model.KindConflict:
		status = http.StatusConflict
		message = err.Error()
	case model.KindState:
		status = http.StatusUnprocessableEntity
		message = err.Error()
	default:
		if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			}
		} else {
			c.Logger().Errorf("unhandled error: %+v", err)
		}
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(status)
		return
	}
	c.JSON(status, map[string]string{"error": message})
}
