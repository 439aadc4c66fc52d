package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/register-share-api/internal/dto"
	"github.com/noah-isme/register-share-api/internal/models"
	"github.com/noah-isme/register-share-api/internal/service"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
	"github.com/noah-isme/register-share-api/pkg/response"
)

// ShareHandler wires HTTP endpoints to the share registry service.
type ShareHandler struct {
	service *service.ShareService
}

// NewShareHandler creates a new handler.
func NewShareHandler(svc *service.ShareService) *ShareHandler {
	return &ShareHandler{service: svc}
}

// Publish godoc
// @Summary Publish a class snapshot
// @Description Store the full class snapshot and return a fresh share code
// @Tags Share
// @Accept json
// @Produce json
// @Param payload body models.ShareSnapshot true "Class snapshot"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /share [post]
func (h *ShareHandler) Publish(c *gin.Context) {
	var snap models.ShareSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	code, err := h.service.Publish(c.Request.Context(), &snap)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.PublishResponse{Code: code})
}

// View godoc
// @Summary Fetch a shared class by code
// @Description Resolve a share code to the stored class snapshot
// @Tags Share
// @Produce json
// @Param code query string true "Share code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /view [get]
func (h *ShareHandler) View(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "code query parameter is required"))
		return
	}

	snap, err := h.service.Fetch(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, snap)
}

// SendMessage godoc
// @Summary Post a chat message
// @Description Append one message to the shared class chat
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body dto.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /messages [post]
func (h *ShareHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}

	if err := h.service.SendMessage(c.Request.Context(), req.Code, req.Message); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ActionResponse{Success: true})
}

// DeleteMessage godoc
// @Summary Delete a chat message
// @Description Remove one message; allowed for the teacher or the original sender
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body dto.DeleteMessageRequest true "Delete payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /messages/delete [post]
func (h *ShareHandler) DeleteMessage(c *gin.Context) {
	var req dto.DeleteMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid delete payload"))
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), req.Code, req.MessageID, req.SenderID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ActionResponse{Success: true})
}

// ToggleLock godoc
// @Summary Lock or unlock the chat
// @Description Set the chat lock flag; teacher only
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body dto.ToggleLockRequest true "Lock payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lock [post]
func (h *ShareHandler) ToggleLock(c *gin.Context) {
	var req dto.ToggleLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lock payload"))
		return
	}

	if err := h.service.SetChatLock(c.Request.Context(), req.Code, *req.IsLocked, req.SenderID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ActionResponse{Success: true})
}
