package httpserver

import (
	"errors"
	"log"
	"net/http"

	"softwise/internal/domain"

	"github.com/gin-gonic/gin"
)

const controllerComponent = "ProjectController"

// writeFailure renders an expected business failure with its own status.
func writeFailure(c *gin.Context, logger *log.Logger, e *domain.AppError) {
	if e.StatusCode >= http.StatusInternalServerError {
		logger.Printf("error: %s %s: %s", c.Request.Method, c.Request.URL.Path, e.Error())
	} else {
		logger.Printf("warn: %s %s: %s", c.Request.Method, c.Request.URL.Path, e.Error())
	}
	c.JSON(e.StatusCode, gin.H{"status": "error", "error": errorBody(e)})
}

// writeFault renders an unexpected error. The cause is logged and never sent
// to the client.
func writeFault(c *gin.Context, logger *log.Logger, op string, err error) {
	logger.Printf("error: %s %s: %s: %v", c.Request.Method, c.Request.URL.Path, op, err)
	if errors.Is(err, domain.ErrStore) {
		e := domain.NewDatabaseError("A storage error occurred", op, "projects", controllerComponent)
		c.JSON(e.StatusCode, gin.H{"status": "error", "error": errorBody(e)})
		return
	}
	e := domain.NewInternalError("An unexpected error occurred", controllerComponent)
	c.JSON(e.StatusCode, gin.H{"status": "error", "error": errorBody(e)})
}

func errorBody(e *domain.AppError) gin.H {
	body := gin.H{
		"type":      e.Type,
		"message":   e.Message,
		"timestamp": domain.FormatTimestamp(e.Timestamp),
	}
	switch e.Type {
	case domain.ErrorValidation:
		body["errors"] = e.Errors
	case domain.ErrorNotFound:
		body["resource"] = e.Resource
		body["resourceId"] = e.ResourceID
		if e.LookupKey != "" {
			body["key"] = e.LookupKey
		}
	case domain.ErrorUnauthorized:
		body["reason"] = e.Reason
	case domain.ErrorForbidden:
		body["requiredPermission"] = e.RequiredPermission
	case domain.ErrorConflict:
		body["conflictingField"] = e.ConflictingField
		body["existingValue"] = e.ExistingValue
	case domain.ErrorDatabase:
		body["operation"] = e.Operation
		body["table"] = e.Table
		if e.NativeCode != "" {
			body["nativeCode"] = e.NativeCode
		}
	case domain.ErrorExternalService:
		body["service"] = e.Service
		body["operation"] = e.Operation
	}
	if e.Component != "" {
		body["component"] = e.Component
	}
	return body
}

// routeError is the plain shape used outside the project API.
func routeError(c *gin.Context, status int, message string, withPath bool) {
	body := gin.H{"message": message, "statusCode": status}
	if withPath {
		body["path"] = c.Request.URL.RequestURI()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
