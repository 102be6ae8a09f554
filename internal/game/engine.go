package game

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/wfunc/elf-game/internal/errors"
	"github.com/wfunc/elf-game/internal/models"
	"github.com/wfunc/elf-game/internal/repository"
	"go.uber.org/zap"
)

// 默认游戏参数
const (
	DefaultStartingElves = 12 // 默认初始精灵数
	DefaultMaxDays       = 10 // 每局最大天数
)

// TurnEngine 回合引擎：校验分配、抽取天气、结算、持久化并广播
type TurnEngine struct {
	repo          repository.SessionRepository
	drawer        WeatherDrawer
	publisher     SessionPublisher
	logger        *zap.Logger
	startingElves int
	maxDays       int

	// 每个会话一把锁，串行化"读取状态→结算→追加"的临界区
	// 不同会话互不竞争
	locks sync.Map // sessionUUID -> *sync.Mutex
}

// EngineConfig 回合引擎配置
type EngineConfig struct {
	Repo          repository.SessionRepository
	Drawer        WeatherDrawer
	Publisher     SessionPublisher
	Logger        *zap.Logger
	StartingElves int
	MaxDays       int
}

// NewTurnEngine 创建回合引擎
func NewTurnEngine(cfg *EngineConfig) *TurnEngine {
	drawer := cfg.Drawer
	if drawer == nil {
		drawer = NewWeatherDrawer()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = NopPublisher{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	startingElves := cfg.StartingElves
	if startingElves <= 0 {
		startingElves = DefaultStartingElves
	}
	maxDays := cfg.MaxDays
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}

	return &TurnEngine{
		repo:          cfg.Repo,
		drawer:        drawer,
		publisher:     publisher,
		logger:        logger,
		startingElves: startingElves,
		maxDays:       maxDays,
	}
}

// MaxDays 返回每局最大天数
func (e *TurnEngine) MaxDays() int {
	return e.maxDays
}

// CreateSession 创建新的游戏会话并广播初始公开状态
func (e *TurnEngine) CreateSession(ctx context.Context, playerName string, elvesStart int) (*SessionView, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, apperrors.New(apperrors.ErrInvalidParam, "player_name is required").
			WithField("player_name", "This field is required")
	}
	if elvesStart < 0 {
		return nil, apperrors.New(apperrors.ErrInvalidParam, "elves_start must be positive").
			WithField("elves_start", "This field must be > 0")
	}
	if elvesStart == 0 {
		elvesStart = e.startingElves
	}

	session := &models.Session{
		UUID:       uuid.New().String(),
		PlayerName: playerName,
		ElvesStart: elvesStart,
	}

	if err := e.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	e.logger.Info("游戏会话已创建",
		zap.String("session_uuid", session.UUID),
		zap.String("player_name", playerName),
		zap.Int("elves_start", elvesStart))

	view := NewSessionView(session)
	e.publisher.PublishSession(session.UUID, view)

	return view, nil
}

// SubmitDay 提交一天的精灵分配并结算
// 天气由注入的WeatherDrawer抽取，普通调用方不能指定结果
func (e *TurnEngine) SubmitDay(ctx context.Context, sessionUUID string, alloc Allocation) (*DayView, error) {
	return e.submitDay(ctx, sessionUUID, alloc, nil)
}

// submitDay 内部提交入口，forced非nil时使用指定天气（仅测试路径）
func (e *TurnEngine) submitDay(ctx context.Context, sessionUUID string, alloc Allocation, forced *models.Weather) (*DayView, error) {
	// 同一会话的提交串行化；数据库唯一索引兜底并发写入
	mu := e.lockFor(sessionUUID)
	mu.Lock()
	defer mu.Unlock()

	session, err := e.repo.FindByUUID(ctx, sessionUUID)
	if err != nil {
		return nil, err
	}

	// 天数上限优先于分配校验
	if session.CurrentDay() >= e.maxDays {
		return nil, errGameCompleted(e.maxDays)
	}

	if err := validateAllocation(alloc); err != nil {
		return nil, err
	}

	remaining := session.ElvesRemaining()
	if alloc.Sum() != remaining {
		return nil, errAllocationMismatch(remaining)
	}

	weather := e.drawWeather(forced)
	elvesReturned, moneyMade := Settle(alloc, weather)

	day := &models.Day{
		Day:            session.NextDay(),
		Weather:        weather,
		ElvesWoods:     alloc.Woods,
		ElvesForest:    alloc.Forest,
		ElvesMountains: alloc.Mountains,
		ElvesReturned:  elvesReturned,
		MoneyMade:      moneyMade,
	}

	// 追加是全有或全无的：写入失败时会话保持原状
	if err := e.repo.AppendDay(ctx, sessionUUID, day); err != nil {
		return nil, err
	}

	e.logger.Info("每日结算完成",
		zap.String("session_uuid", sessionUUID),
		zap.Int("day", day.Day),
		zap.String("weather", string(weather)),
		zap.Int("elves_sent", day.ElvesSent()),
		zap.Int("elves_returned", elvesReturned),
		zap.String("money_made", moneyMade.String()))

	// Day已持久化，广播失败不影响本次提交
	session.Days = append(session.Days, *day)
	e.publisher.PublishSession(sessionUUID, NewSessionView(session))

	return NewDayView(day), nil
}

// GetSession 返回会话公开状态
func (e *TurnEngine) GetSession(ctx context.Context, sessionUUID string) (*SessionView, error) {
	session, err := e.repo.FindByUUID(ctx, sessionUUID)
	if err != nil {
		return nil, err
	}
	return NewSessionView(session), nil
}

// ListSessions 返回会话列表（active为""/only/complete）
func (e *TurnEngine) ListSessions(ctx context.Context, active string, p *repository.Pagination) (*SessionListView, error) {
	filter := repository.SessionFilter{
		Active:  active,
		MaxDays: e.maxDays,
	}

	sessions, err := e.repo.List(ctx, filter, p)
	if err != nil {
		return nil, err
	}

	views := make([]*SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, NewSessionView(s))
	}

	total := int64(len(views))
	if p != nil {
		total = p.Total
	}

	return &SessionListView{Sessions: views, Total: total}, nil
}

// GetDays 返回会话的结算历史，按day升序
func (e *TurnEngine) GetDays(ctx context.Context, sessionUUID string) ([]*DayView, error) {
	// 先确认会话存在，保持与其他操作一致的404语义
	if _, err := e.repo.FindByUUID(ctx, sessionUUID); err != nil {
		return nil, err
	}

	days, err := e.repo.ListDays(ctx, sessionUUID)
	if err != nil {
		return nil, err
	}

	views := make([]*DayView, 0, len(days))
	for _, d := range days {
		views = append(views, NewDayView(d))
	}
	return views, nil
}

// lockFor 返回会话对应的互斥锁
func (e *TurnEngine) lockFor(sessionUUID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(sessionUUID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// drawWeather 抽取天气，forced非nil时直接使用
func (e *TurnEngine) drawWeather(forced *models.Weather) models.Weather {
	if forced != nil {
		return *forced
	}
	return e.drawer.Draw()
}

// validateAllocation 校验每个字段非负
func validateAllocation(a Allocation) error {
	var appErr *apperrors.AppError

	check := func(field string, value int) {
		if value < 0 {
			if appErr == nil {
				appErr = apperrors.New(apperrors.ErrInvalidAllocation, "allocation fields must be >= 0")
			}
			appErr.WithField(field, "This field must be >= 0")
		}
	}

	check("elves_woods", a.Woods)
	check("elves_forest", a.Forest)
	check("elves_mountains", a.Mountains)

	if appErr != nil {
		return appErr
	}
	return nil
}

// errAllocationMismatch 分配总数与剩余精灵数不一致
// 协议要求逐字段携带同一条英文提示
func errAllocationMismatch(expected int) error {
	msg := fmt.Sprintf("You must send exactly %d elves", expected)
	return apperrors.New(apperrors.ErrAllocationMismatch, msg).
		WithField("elves_woods", msg).
		WithField("elves_forest", msg).
		WithField("elves_mountains", msg)
}

// errGameCompleted 会话已打满天数上限
func errGameCompleted(maxDays int) error {
	msg := fmt.Sprintf("Your elf game has completed at %d turns!", maxDays)
	return apperrors.New(apperrors.ErrGameCompleted, msg).
		WithField("day", msg)
}
