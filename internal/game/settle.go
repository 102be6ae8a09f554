package game

import (
	"github.com/wfunc/elf-game/internal/models"
)

// 各地点每只精灵的单位产出
const (
	WoodsValue     models.Money = 1000 // 10.00
	ForestValue    models.Money = 2000 // 20.00
	MountainsValue models.Money = 5000 // 50.00
)

// Allocation 一天的精灵分配
type Allocation struct {
	Woods     int `json:"elves_woods"`
	Forest    int `json:"elves_forest"`
	Mountains int `json:"elves_mountains"`
}

// Sum 返回分配的精灵总数
func (a Allocation) Sum() int {
	return a.Woods + a.Forest + a.Mountains
}

// Settle 结算一天：由分配和天气计算返回的精灵数与产出
//
// 好天气：所有精灵返回，产出 = woods*10 + forest*20 + mountains*50。
// 降雪：山区精灵全部损失且无产出；森林精灵返回但空手而归；
// 林地精灵返回且正常产出。森林与山区在降雪下的不对称是固定的游戏规则。
//
// 纯函数，入参假定已在上游校验
func Settle(a Allocation, w models.Weather) (elvesReturned int, moneyMade models.Money) {
	if w == models.WeatherGood {
		elvesReturned = a.Sum()
		moneyMade = WoodsValue.MulInt(a.Woods) +
			ForestValue.MulInt(a.Forest) +
			MountainsValue.MulInt(a.Mountains)
		return elvesReturned, moneyMade
	}

	// 降雪
	elvesReturned = a.Woods + a.Forest
	moneyMade = WoodsValue.MulInt(a.Woods)
	return elvesReturned, moneyMade
}
