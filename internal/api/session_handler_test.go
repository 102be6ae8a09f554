package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/elf-game/internal/game"
	"github.com/wfunc/elf-game/internal/models"
	"github.com/wfunc/elf-game/internal/repository"
	ws "github.com/wfunc/elf-game/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupTestRouter 创建带内存数据库的测试路由
func setupTestRouter(t *testing.T, drawer game.WeatherDrawer) (*Router, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db := repository.TestDB(t)
	repo := repository.NewSessionRepository(db)
	logger := zap.NewNop()

	hub := ws.NewHub(logger)
	go hub.Run()

	engine := game.NewTurnEngine(&game.EngineConfig{
		Repo:      repo,
		Drawer:    drawer,
		Publisher: hub,
		Logger:    logger,
	})

	return NewRouter(db, engine, hub, logger), db
}

// doJSON 发送JSON请求并返回响应
func doJSON(router *Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.GetEngine().ServeHTTP(w, req)
	return w
}

// createSession 创建测试会话并返回视图
func createSession(t *testing.T, router *Router, playerName string) *game.SessionView {
	w := doJSON(router, http.MethodPost, "/api/v1/game", gin.H{"player_name": playerName})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view game.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return &view
}

// TestCreateSessionEndpoint 测试创建会话接口
func TestCreateSessionEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, game.NewSequenceDrawer(models.WeatherGood))

	w := doJSON(router, http.MethodPost, "/api/v1/game", gin.H{"player_name": "张三"})
	require.Equal(t, http.StatusCreated, w.Code)

	var view game.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.NotEmpty(t, view.UUID)
	assert.Equal(t, "张三", view.PlayerName)
	assert.Equal(t, 0, view.CurrentDay)
	assert.Equal(t, 12, view.ElvesRemaining)

	// money_made序列化为定点字符串
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, `"0.00"`, string(raw["money_made"]))
}

// TestCreateSessionMissingName 测试缺少玩家名
func TestCreateSessionMissingName(t *testing.T) {
	router, _ := setupTestRouter(t, game.NewSequenceDrawer(models.WeatherGood))

	w := doJSON(router, http.MethodPost, "/api/v1/game", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	assert.Contains(t, fields, "player_name")
}

// TestSubmitDayEndpoint 测试提交结算接口
func TestSubmitDayEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t,
		game.NewSequenceDrawer(models.WeatherGood, models.WeatherSnow))

	session := createSession(t, router, "张三")
	path := fmt.Sprintf("/api/v1/game/%s/day", session.UUID)

	w := doJSON(router, http.MethodPost, path, gin.H{
		"elves_woods":     8,
		"elves_forest":    3,
		"elves_mountains": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var day game.DayView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	assert.Equal(t, 1, day.Day)
	assert.Equal(t, models.WeatherGood, day.Weather)
	assert.Equal(t, 12, day.ElvesReturned)
	assert.Equal(t, "190.00", day.MoneyMade.String())

	// 第二天降雪
	w = doJSON(router, http.MethodPost, path, gin.H{
		"elves_woods":     6,
		"elves_forest":    4,
		"elves_mountains": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	assert.Equal(t, 2, day.Day)
	assert.Equal(t, models.WeatherSnow, day.Weather)
	assert.Equal(t, 10, day.ElvesReturned)

	// 会话状态已更新
	w = doJSON(router, http.MethodGet, "/api/v1/game/"+session.UUID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view game.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 2, view.CurrentDay)
	assert.Equal(t, 10, view.ElvesRemaining)
	assert.Equal(t, "250.00", view.MoneyMade.String())
}

// TestSubmitDayMismatchEndpoint 测试分配不匹配的字段级400
func TestSubmitDayMismatchEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, game.NewSequenceDrawer(models.WeatherGood))

	session := createSession(t, router, "张三")

	w := doJSON(router, http.MethodPost, "/api/v1/game/"+session.UUID+"/day", gin.H{
		"elves_woods":     1,
		"elves_forest":    1,
		"elves_mountains": 1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	want := "You must send exactly 12 elves"
	assert.Equal(t, want, fields["elves_woods"])
	assert.Equal(t, want, fields["elves_forest"])
	assert.Equal(t, want, fields["elves_mountains"])
}

// TestSubmitDayCompletedEndpoint 测试已完成会话的提交
func TestSubmitDayCompletedEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, game.NewSequenceDrawer(models.WeatherGood))

	session := createSession(t, router, "张三")
	path := fmt.Sprintf("/api/v1/game/%s/day", session.UUID)

	for i := 0; i < 10; i++ {
		w := doJSON(router, http.MethodPost, path, gin.H{"elves_woods": 12})
		require.Equal(t, http.StatusCreated, w.Code, "第%d天: %s", i+1, w.Body.String())
	}

	w := doJSON(router, http.MethodPost, path, gin.H{"elves_woods": 12})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	assert.Equal(t, "Your elf game has completed at 10 turns!", fields["day"])
}

// TestGetSessionNotFoundEndpoint 测试不存在的会话返回404
func TestGetSessionNotFoundEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, game.NewSequenceDrawer(models.WeatherGood))

	w := doJSON(router, http.MethodGet, "/api/v1/game/no-such-session", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestListDaysEndpoint 测试结算历史接口
func TestListDaysEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, game.NewSequenceDrawer(models.WeatherGood))

	session := createSession(t, router, "张三")
	path := fmt.Sprintf("/api/v1/game/%s/day", session.UUID)

	for i := 0; i < 3; i++ {
		w := doJSON(router, http.MethodPost, path, gin.H{"elves_woods": 12})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var days []*game.DayView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	require.Len(t, days, 3)
	for i, d := range days {
		assert.Equal(t, i+1, d.Day)
	}
}

// TestListSessionsEndpoint 测试会话列表与过滤
func TestListSessionsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, game.NewSequenceDrawer(models.WeatherGood))

	active := createSession(t, router, "进行中")
	complete := createSession(t, router, "已完成")

	path := fmt.Sprintf("/api/v1/game/%s/day", complete.UUID)
	for i := 0; i < 10; i++ {
		w := doJSON(router, http.MethodPost, path, gin.H{"elves_woods": 12})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var list game.SessionListView

	w := doJSON(router, http.MethodGet, "/api/v1/game", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Sessions, 2)

	w = doJSON(router, http.MethodGet, "/api/v1/game?active=only", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, active.UUID, list.Sessions[0].UUID)

	w = doJSON(router, http.MethodGet, "/api/v1/game?active=complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, complete.UUID, list.Sessions[0].UUID)
}

// TestHealthEndpoint 测试健康检查
func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, game.NewSequenceDrawer(models.WeatherGood))

	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestNotFoundRoute 测试404处理
func TestNotFoundRoute(t *testing.T) {
	router, _ := setupTestRouter(t, game.NewSequenceDrawer(models.WeatherGood))

	w := doJSON(router, http.MethodGet, "/no/such/route", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
