package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"necklace_web/internal/models"
	"necklace_web/internal/service"
)

// NecklaceHandler 處理 /api/necklace 資源的請求
type NecklaceHandler struct {
	necklaceService *service.NecklaceService
	log             zerolog.Logger
}

// NewNecklaceHandler 創建一個新的 NecklaceHandler 實例
func NewNecklaceHandler(necklaceService *service.NecklaceService, log zerolog.Logger) *NecklaceHandler {
	log = log.With().Str("component", "necklace_handler").Logger()
	log.Info().Msg("NecklaceHandler started")

	return &NecklaceHandler{
		necklaceService: necklaceService,
		log:             log,
	}
}

// ListNecklaces 回傳所有 Necklace
func (h *NecklaceHandler) ListNecklaces(c *gin.Context) {
	necklaces, err := h.necklaceService.ListNecklaces(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, necklaces)
}

// GetNecklace 依 ID 回傳單一 Necklace
func (h *NecklaceHandler) GetNecklace(c *gin.Context) {
	id, err := parseNecklaceID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	necklace, err := h.necklaceService.GetNecklace(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, necklace)
}

// CreateNecklace 建立新的 Necklace，成功時回傳 201 與 Location
func (h *NecklaceHandler) CreateNecklace(c *gin.Context) {
	input, err := readNecklace(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	necklace, err := h.necklaceService.CreateNecklace(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", necklaceLocation(necklace.NecklaceID))
	c.IndentedJSON(http.StatusCreated, necklace)
}

// UpdateNecklace 整體取代 Necklace，成功時回傳 204
func (h *NecklaceHandler) UpdateNecklace(c *gin.Context) {
	id, err := parseNecklaceID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	input, err := readNecklace(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if _, err := h.necklaceService.UpdateNecklace(c.Request.Context(), id, input); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteNecklace 刪除 Necklace，成功時回傳 204
func (h *NecklaceHandler) DeleteNecklace(c *gin.Context) {
	id, err := parseNecklaceID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if err := h.necklaceService.DeleteNecklace(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseNecklaceID 解析路徑中的 ID，格式錯誤時回傳 ErrInvalidNecklaceID
func parseNecklaceID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, service.ErrInvalidNecklaceID
	}
	return uint(id), nil
}

// readNecklace 解析請求內容。空的內容或 JSON null 視為沒有 payload
func readNecklace(c *gin.Context) (*models.Necklace, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, service.ErrNoNecklace
	}

	var input models.Necklace
	if err := binding.JSON.BindBody(body, &input); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return &input, nil
}

// necklaceLocation 回傳新資源的 GET 路徑
func necklaceLocation(id uint) string {
	return "/api/necklace/" + strconv.FormatUint(uint64(id), 10)
}

var errInvalidPayload = errors.New("invalid necklace payload")

// handleError 把 service 的錯誤轉換成 HTTP 回應
func (h *NecklaceHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidNecklaceID),
		errors.Is(err, service.ErrNoNecklace),
		errors.Is(err, service.ErrNecklaceIDMismatch),
		errors.Is(err, service.ErrNecklaceIDExists),
		errors.Is(err, service.ErrCreateFailed),
		errors.Is(err, service.ErrUpdateFailed),
		errors.Is(err, service.ErrDeleteFailed):
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": rootMessage(err)})

	case errors.Is(err, errInvalidPayload):
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrNecklaceNotFound):
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": service.ErrNecklaceNotFound.Error()})

	default:
		h.log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unexpected error")
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// rootMessage 只回傳 sentinel 的訊息，不把儲存層細節暴露給呼叫者
func rootMessage(err error) string {
	for _, sentinel := range []error{
		service.ErrInvalidNecklaceID,
		service.ErrNoNecklace,
		service.ErrNecklaceIDMismatch,
		service.ErrNecklaceIDExists,
		service.ErrCreateFailed,
		service.ErrUpdateFailed,
		service.ErrDeleteFailed,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
