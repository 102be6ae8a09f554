package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "170.00", Money(17000).String())
	assert.Equal(t, "0.00", Money(0).String())
	assert.Equal(t, "0.50", Money(50).String())
	assert.Equal(t, "10.05", Money(1005).String())
	assert.Equal(t, "-3.25", Money(-325).String())
}

func TestMoneyMarshalJSON(t *testing.T) {
	// 金额序列化为字符串，与客户端协议一致
	data, err := json.Marshal(Money(23000))
	require.NoError(t, err)
	assert.Equal(t, `"230.00"`, string(data))
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`"170.00"`), &m))
	assert.Equal(t, Money(17000), m)

	// 未加引号的数字也可接受
	require.NoError(t, json.Unmarshal([]byte(`60.00`), &m))
	assert.Equal(t, Money(6000), m)
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"170.00", 17000},
		{"170", 17000},
		{"0.5", 50},
		{"-12.34", -1234},
		{".25", 25},
	}
	for _, c := range cases {
		got, err := ParseMoney(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	_, err := ParseMoney("")
	assert.Error(t, err)
	_, err = ParseMoney("abc")
	assert.Error(t, err)
}

func TestMoneyMulInt(t *testing.T) {
	assert.Equal(t, Money(5000), Money(1000).MulInt(5))
}

func TestSessionDerived(t *testing.T) {
	s := &Session{UUID: "u", PlayerName: "p", ElvesStart: 12}

	// 没有Day时的初始状态
	assert.Equal(t, 0, s.CurrentDay())
	assert.Equal(t, 12, s.ElvesRemaining())
	assert.Equal(t, Money(0), s.MoneyMade())
	assert.Nil(t, s.LastWeather())
	assert.Equal(t, 1, s.NextDay())

	s.Days = []Day{
		{Day: 1, Weather: WeatherGood, ElvesWoods: 8, ElvesForest: 3, ElvesMountains: 1, ElvesReturned: 12, MoneyMade: 19000},
		{Day: 2, Weather: WeatherSnow, ElvesWoods: 6, ElvesForest: 4, ElvesMountains: 2, ElvesReturned: 10, MoneyMade: 6000},
	}

	assert.Equal(t, 2, s.CurrentDay())
	assert.Equal(t, 10, s.ElvesRemaining())
	assert.Equal(t, Money(25000), s.MoneyMade())
	require.NotNil(t, s.LastWeather())
	assert.Equal(t, WeatherSnow, *s.LastWeather())
	assert.Equal(t, 3, s.NextDay())
}

func TestDayElvesSent(t *testing.T) {
	d := &Day{ElvesWoods: 6, ElvesForest: 4, ElvesMountains: 2}
	assert.Equal(t, 12, d.ElvesSent())
}

func TestWeatherValid(t *testing.T) {
	assert.True(t, WeatherGood.Valid())
	assert.True(t, WeatherSnow.Valid())
	assert.False(t, Weather("rain").Valid())
}
