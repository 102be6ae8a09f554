package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/elf-game/internal/errors"
	"github.com/wfunc/elf-game/internal/game"
	"github.com/wfunc/elf-game/internal/repository"
	"go.uber.org/zap"
)

// SessionHandler 游戏会话处理器
type SessionHandler struct {
	engine *game.TurnEngine
	logger *zap.Logger
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(engine *game.TurnEngine, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		engine: engine,
		logger: logger,
	}
}

// CreateSessionRequest 创建会话请求
type CreateSessionRequest struct {
	PlayerName string `json:"player_name"`
	ElvesStart int    `json:"elves_start"`
}

// CreateSession 创建游戏会话
// POST /api/v1/game
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.New(apperrors.ErrInvalidParam, "请求体格式错误").
			WithCause(err))
		return
	}

	view, err := h.engine.CreateSession(c.Request.Context(), req.PlayerName, req.ElvesStart)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// ListSessions 查询会话列表
// GET /api/v1/game?active=only|complete&page=1&page_size=10
func (h *SessionHandler) ListSessions(c *gin.Context) {
	active := c.Query("active")

	var p *repository.Pagination
	if c.Query("page") != "" || c.Query("page_size") != "" {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
		p = repository.NewPagination(page, pageSize)
	}

	list, err := h.engine.ListSessions(c.Request.Context(), active, p)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetSession 查询单个会话
// GET /api/v1/game/:uuid
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.engine.GetSession(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ListDays 查询会话的结算历史
// GET /api/v1/game/:uuid/day
func (h *SessionHandler) ListDays(c *gin.Context) {
	days, err := h.engine.GetDays(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, days)
}

// SubmitDay 提交一天的精灵分配
// POST /api/v1/game/:uuid/day
func (h *SessionHandler) SubmitDay(c *gin.Context) {
	var alloc game.Allocation
	if err := c.ShouldBindJSON(&alloc); err != nil {
		h.respondError(c, apperrors.New(apperrors.ErrInvalidParam, "请求体格式错误").
			WithCause(err))
		return
	}

	day, err := h.engine.SubmitDay(c.Request.Context(), c.Param("uuid"), alloc)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, day)
}

// respondError 统一错误响应
// 带字段错误的校验失败按字段映射返回，与客户端协议一致
func (h *SessionHandler) respondError(c *gin.Context, err error) {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		h.logger.Error("未分类的处理器错误", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    int(apperrors.ErrUnknown),
			"message": "internal error",
		})
		return
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error("处理器错误",
			zap.Int("code", int(appErr.Code)),
			zap.Error(appErr))
	}

	if len(appErr.Fields) > 0 {
		c.JSON(status, appErr.Fields)
		return
	}

	c.JSON(status, gin.H{
		"code":    int(appErr.Code),
		"message": appErr.Message,
		"detail":  appErr.Details,
	})
}
