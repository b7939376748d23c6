// Package handlers implements the gin handlers of the descriptor API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	"github.com/turtacn/jazzy-go/internal/interfaces/http/middleware"
	"github.com/turtacn/jazzy-go/pkg/errors"
	"github.com/turtacn/jazzy-go/pkg/types/common"
)

// StatusForError maps a pipeline error to an HTTP status.  Caller mistakes
// are 400, deadline overruns 504 and chemistry failures 422; other coded
// errors follow their code and anything else is 500.  A deadline anywhere in
// the chain wins over the chemistry code wrapped around it.
func StatusForError(err error) int {
	switch {
	case appdesc.IsInputError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.IsCode(err, errors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	case errors.IsCode(err, errors.CodeJazzy):
		return http.StatusUnprocessableEntity
	}
	if code := errors.GetCode(err); code != errors.CodeUnknown {
		return errors.HTTPStatusForCode(code)
	}
	return http.StatusInternalServerError
}

// ErrorDetail builds the response error body.  Uncoded 500s are masked.
func ErrorDetail(err error) common.ErrorDetail {
	code := appdesc.ErrorCode(err)
	msg := appdesc.ErrorMessage(err)
	if errors.GetCode(err) == errors.CodeUnknown && StatusForError(err) == http.StatusInternalServerError {
		msg = "internal server error"
	}
	return common.ErrorDetail{Code: code, Message: msg}
}

func respondOK[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(data).WithRequestID(middleware.GetRequestID(c)))
}

func respondError(c *gin.Context, err error) {
	status := StatusForError(err)
	detail := ErrorDetail(err)
	_ = c.Error(err)
	c.JSON(status, common.NewErrorResponse(detail.Code, detail.Message).WithRequestID(middleware.GetRequestID(c)))
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, errors.New(errors.ErrCodeBadRequest, message))
}

//Personal.AI order the ending
