package models

import (
	"time"
)

// Weather 每日随机天气
type Weather string

const (
	WeatherGood Weather = "good" // 好天气：所有精灵返回并带回产出
	WeatherSnow Weather = "snow" // 降雪：山区精灵全部损失，森林精灵空手而归
)

// Valid 检查天气取值是否合法
func (w Weather) Valid() bool {
	return w == WeatherGood || w == WeatherSnow
}

// Session 游戏会话表
// 一局游戏由最多10个Day组成，按day字段升序排列
type Session struct {
	UUID       string    `gorm:"primaryKey;size:36" json:"uuid"`
	PlayerName string    `gorm:"size:200;not null" json:"player_name"`
	ElvesStart int       `gorm:"not null;default:12" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联（仓储层按day升序预加载）
	Days []Day `gorm:"foreignKey:SessionUUID;references:UUID" json:"-"`
}

// TableName 指定表名
func (Session) TableName() string {
	return "game_sessions"
}

// CurrentDay 返回当前天数（已结算的Day数量）
func (s *Session) CurrentDay() int {
	return len(s.Days)
}

// ElvesRemaining 返回当前剩余精灵数
// 没有Day时为初始精灵数，否则为最后一天返回的精灵数
func (s *Session) ElvesRemaining() int {
	if len(s.Days) == 0 {
		return s.ElvesStart
	}
	return s.Days[len(s.Days)-1].ElvesReturned
}

// MoneyMade 返回会话累计产出
func (s *Session) MoneyMade() Money {
	var total Money
	for _, d := range s.Days {
		total += d.MoneyMade
	}
	return total
}

// LastWeather 返回最近一天的天气，没有Day时为nil
func (s *Session) LastWeather() *Weather {
	if len(s.Days) == 0 {
		return nil
	}
	w := s.Days[len(s.Days)-1].Weather
	return &w
}

// NextDay 返回下一个待结算的天数（最大day+1，首日为1）
func (s *Session) NextDay() int {
	max := 0
	for _, d := range s.Days {
		if d.Day > max {
			max = d.Day
		}
	}
	return max + 1
}

// Day 一天的结算记录（创建后不可变，构成会话的审计日志）
type Day struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	SessionUUID string    `gorm:"size:36;not null;uniqueIndex:idx_session_day" json:"-"`
	Day         int       `gorm:"not null;uniqueIndex:idx_session_day" json:"day"`
	Weather     Weather   `gorm:"size:10;not null" json:"weather"`
	ElvesWoods  int       `gorm:"not null" json:"elves_woods"`
	ElvesForest int       `gorm:"not null" json:"elves_forest"`
	ElvesMountains int    `gorm:"not null" json:"elves_mountains"`
	ElvesReturned  int    `gorm:"not null" json:"elves_returned"`
	MoneyMade   Money     `gorm:"not null" json:"money_made"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定表名
func (Day) TableName() string {
	return "game_days"
}

// ElvesSent 返回当天派出的精灵总数
func (d *Day) ElvesSent() int {
	return d.ElvesWoods + d.ElvesForest + d.ElvesMountains
}
