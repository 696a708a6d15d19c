package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"softwise/internal/domain"
	projectsvc "softwise/internal/service/project"

	"github.com/gin-gonic/gin"
)

type projectHandler struct {
	svc    *projectsvc.Service
	logger *log.Logger
}

// register attaches the project CRUD routes to rg.
func (h *projectHandler) register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *projectHandler) create(c *gin.Context) {
	var in domain.CreateProjectInput
	if !h.bindJSON(c, &in) {
		return
	}
	res, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeFault(c, h.logger, "create", err)
		return
	}
	if f := res.Failure(); f != nil {
		writeFailure(c, h.logger, f)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Projeto adicionado ao portfólio",
		"data":    gin.H{"id": res.Value()},
	})
}

func (h *projectHandler) list(c *gin.Context) {
	var q domain.ProjectQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeFailure(c, h.logger, domain.NewValidationError("Parâmetros de consulta inválidos", nil, controllerComponent))
		return
	}
	res, err := h.svc.GetAll(c.Request.Context(), q)
	if err != nil {
		writeFault(c, h.logger, "list", err)
		return
	}
	if f := res.Failure(); f != nil {
		writeFailure(c, h.logger, f)
		return
	}
	page := res.Value()
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"data":       page.Data,
		"pagination": page.Pagination,
	})
}

func (h *projectHandler) get(c *gin.Context) {
	res, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFault(c, h.logger, "get", err)
		return
	}
	if f := res.Failure(); f != nil {
		writeFailure(c, h.logger, f)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": res.Value()})
}

func (h *projectHandler) update(c *gin.Context) {
	var in domain.UpdateProjectInput
	if !h.bindJSON(c, &in) {
		return
	}
	res, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeFault(c, h.logger, "update", err)
		return
	}
	if f := res.Failure(); f != nil {
		writeFailure(c, h.logger, f)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Projeto atualizado",
		"data":    res.Value(),
	})
}

func (h *projectHandler) delete(c *gin.Context) {
	res, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFault(c, h.logger, "delete", err)
		return
	}
	if f := res.Failure(); f != nil {
		writeFailure(c, h.logger, f)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindJSON decodes the body into dst and answers with a validation failure
// when the payload is not well-formed JSON of the expected shape.
func (h *projectHandler) bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	v := domain.FieldViolation{Field: "body", Message: "Corpo da requisição inválido", Rule: "json"}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		v.Field = typeErr.Field
		v.Message = "Tipo inválido, esperado " + typeErr.Type.String()
		v.Rule = "type"
	}
	writeFailure(c, h.logger, domain.NewValidationError(v.Message, []domain.FieldViolation{v}, controllerComponent))
	return false
}
