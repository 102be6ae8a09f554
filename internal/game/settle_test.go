package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wfunc/elf-game/internal/models"
)

// TestSettleGoodWeather 测试好天气结算：全员返回且全额产出
func TestSettleGoodWeather(t *testing.T) {
	alloc := Allocation{Woods: 8, Forest: 3, Mountains: 1}

	returned, money := Settle(alloc, models.WeatherGood)

	assert.Equal(t, 12, returned)
	// 8*10 + 3*20 + 1*50 = 190.00
	assert.Equal(t, models.Money(19000), money)
	assert.Equal(t, "190.00", money.String())
}

// TestSettleSnowWeather 测试降雪结算：山区损失，森林空手，林地正常
func TestSettleSnowWeather(t *testing.T) {
	alloc := Allocation{Woods: 6, Forest: 4, Mountains: 2}

	returned, money := Settle(alloc, models.WeatherSnow)

	assert.Equal(t, 10, returned)
	// 仅林地产出：6*10 = 60.00
	assert.Equal(t, models.Money(6000), money)
	assert.Equal(t, "60.00", money.String())
}

// TestSettleZeroAllocation 测试全零分配
func TestSettleZeroAllocation(t *testing.T) {
	alloc := Allocation{}

	returned, money := Settle(alloc, models.WeatherGood)
	assert.Equal(t, 0, returned)
	assert.Equal(t, models.Money(0), money)

	returned, money = Settle(alloc, models.WeatherSnow)
	assert.Equal(t, 0, returned)
	assert.Equal(t, models.Money(0), money)
}

// TestSettleAllMountainsSnow 测试全部上山遇雪：全军覆没
func TestSettleAllMountainsSnow(t *testing.T) {
	alloc := Allocation{Mountains: 12}

	returned, money := Settle(alloc, models.WeatherSnow)

	assert.Equal(t, 0, returned)
	assert.Equal(t, models.Money(0), money)
}

// TestSettleAllWoodsSnow 测试全部去林地遇雪：照常产出
func TestSettleAllWoodsSnow(t *testing.T) {
	alloc := Allocation{Woods: 12}

	returned, money := Settle(alloc, models.WeatherSnow)

	assert.Equal(t, 12, returned)
	assert.Equal(t, models.Money(12000), money)
}

// TestSettleProperties 测试结算不变式：返回数不超过派出数，产出非负
func TestSettleProperties(t *testing.T) {
	cases := []Allocation{
		{Woods: 12},
		{Forest: 12},
		{Mountains: 12},
		{Woods: 4, Forest: 4, Mountains: 4},
		{Woods: 1, Forest: 0, Mountains: 11},
		{},
	}
	weathers := []models.Weather{models.WeatherGood, models.WeatherSnow}

	for _, alloc := range cases {
		for _, w := range weathers {
			returned, money := Settle(alloc, w)
			assert.LessOrEqual(t, returned, alloc.Sum(),
				"返回精灵数不能超过派出数: %+v %s", alloc, w)
			assert.GreaterOrEqual(t, returned, 0)
			assert.GreaterOrEqual(t, int64(money), int64(0))
			if w == models.WeatherGood {
				assert.Equal(t, alloc.Sum(), returned,
					"好天气下必须全员返回: %+v", alloc)
			}
		}
	}
}

// TestAllocationSum 测试分配总数
func TestAllocationSum(t *testing.T) {
	assert.Equal(t, 12, Allocation{Woods: 8, Forest: 3, Mountains: 1}.Sum())
	assert.Equal(t, 0, Allocation{}.Sum())
}
