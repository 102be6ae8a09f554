package game

import (
	"github.com/wfunc/elf-game/internal/models"
)

// GameStatus 会话生命周期状态
type GameStatus string

const (
	StatusActive   GameStatus = "active"   // 还可以提交新的一天
	StatusComplete GameStatus = "complete" // 已打满天数上限，终态
)

// SessionView 会话公开状态（HTTP响应与WebSocket广播共用）
type SessionView struct {
	UUID           string          `json:"uuid"`
	PlayerName     string          `json:"player_name"`
	CurrentDay     int             `json:"current_day"`
	ElvesRemaining int             `json:"elves_remaining"`
	MoneyMade      models.Money    `json:"money_made"`
	LastWeather    *models.Weather `json:"last_weather"`
}

// DayView 单天结算结果视图
type DayView struct {
	Day            int            `json:"day"`
	Weather        models.Weather `json:"weather"`
	ElvesWoods     int            `json:"elves_woods"`
	ElvesForest    int            `json:"elves_forest"`
	ElvesMountains int            `json:"elves_mountains"`
	ElvesSent      int            `json:"elves_sent"`
	ElvesReturned  int            `json:"elves_returned"`
	MoneyMade      models.Money   `json:"money_made"`
}

// SessionListView 会话列表响应
type SessionListView struct {
	Sessions []*SessionView `json:"sessions"`
	Total    int64          `json:"total"`
}

// NewSessionView 由会话聚合构建公开视图（Days需已按day升序加载）
func NewSessionView(s *models.Session) *SessionView {
	return &SessionView{
		UUID:           s.UUID,
		PlayerName:     s.PlayerName,
		CurrentDay:     s.CurrentDay(),
		ElvesRemaining: s.ElvesRemaining(),
		MoneyMade:      s.MoneyMade(),
		LastWeather:    s.LastWeather(),
	}
}

// NewDayView 由结算记录构建视图
func NewDayView(d *models.Day) *DayView {
	return &DayView{
		Day:            d.Day,
		Weather:        d.Weather,
		ElvesWoods:     d.ElvesWoods,
		ElvesForest:    d.ElvesForest,
		ElvesMountains: d.ElvesMountains,
		ElvesSent:      d.ElvesSent(),
		ElvesReturned:  d.ElvesReturned,
		MoneyMade:      d.MoneyMade,
	}
}

// Status 返回会话当前的生命周期状态
func (v *SessionView) Status(maxDays int) GameStatus {
	if v.CurrentDay >= maxDays {
		return StatusComplete
	}
	return StatusActive
}
