package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/elf-game/internal/game"
	ws "github.com/wfunc/elf-game/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	sessionHandler *SessionHandler
	wsHandler      *WebSocketHandler
	log            *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, turnEngine *game.TurnEngine, hub *ws.Hub, log *zap.Logger) *Router {
	// 创建Gin引擎
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	// 创建处理器
	sessionHandler := NewSessionHandler(turnEngine, log)
	wsHandler := NewWebSocketHandler(hub, log)

	router := &Router{
		engine:         engine,
		db:             db,
		sessionHandler: sessionHandler,
		wsHandler:      wsHandler,
		log:            log,
	}

	// 设置路由
	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		gameGroup := v1.Group("/game")
		{
			gameGroup.POST("", r.sessionHandler.CreateSession)
			gameGroup.GET("", r.sessionHandler.ListSessions)
			gameGroup.GET("/:uuid", r.sessionHandler.GetSession)
			gameGroup.GET("/:uuid/day", r.sessionHandler.ListDays)
			gameGroup.POST("/:uuid/day", r.sessionHandler.SubmitDay)
		}
	}

	// WebSocket路由
	wsGroup := r.engine.Group("/ws")
	{
		wsGroup.GET("/game", r.wsHandler.GameWebSocket)
		wsGroup.GET("/online", r.wsHandler.GetOnlineCount)
	}

	// API文档
	registerOpenAPIRoutes(r.engine)
	registerSwaggerRoutes(r.engine)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	// 检查数据库连接
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
