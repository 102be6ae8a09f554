package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Money 定点金额类型（以分为单位存储，避免浮点误差）
// 对外序列化为两位小数的字符串，如 "170.00"
type Money int64

// MoneyFromParts 由整数部分和分构造金额
func MoneyFromParts(units, cents int64) Money {
	return Money(units*100 + cents)
}

// String 返回两位小数表示
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MulInt 金额乘以数量
func (m Money) MulInt(n int) Money {
	return m * Money(n)
}

// MarshalJSON 实现json.Marshaler，输出 "170.00" 形式的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON 实现json.Unmarshaler，接受 "170.00" 或 170.00
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMoney 解析两位小数的金额字符串
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("金额不能为空")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	units := s
	cents := "0"
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		units = s[:idx]
		cents = s[idx+1:]
	}
	if units == "" {
		units = "0"
	}
	if len(cents) > 2 {
		cents = cents[:2]
	}
	for len(cents) < 2 {
		cents += "0"
	}

	u, err := strconv.ParseInt(units, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("无效的金额: %q", s)
	}
	c, err := strconv.ParseInt(cents, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("无效的金额: %q", s)
	}

	v := Money(u*100 + c)
	if negative {
		v = -v
	}
	return v, nil
}
