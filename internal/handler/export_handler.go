package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/register-share-api/internal/service"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
	"github.com/noah-isme/register-share-api/pkg/response"
)

// ExportHandler streams rendered month registers.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Register godoc
// @Summary Export a month register
// @Description Render the register behind a share code as PDF or CSV
// @Tags Export
// @Produce application/pdf
// @Produce text/csv
// @Param code query string true "Share code"
// @Param month query string true "Month name"
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /export/register [get]
func (h *ExportHandler) Register(c *gin.Context) {
	code := c.Query("code")
	month := c.Query("month")
	if code == "" || month == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "code and month query parameters are required"))
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatPDF)))
	result, err := h.service.RenderRegister(c.Request.Context(), code, month, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Content)
}
