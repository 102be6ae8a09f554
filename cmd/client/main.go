package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/wfunc/elf-game/internal/game"
)

// GameClient 游戏机器人客户端，自动打完一整局
type GameClient struct {
	BaseURL    string
	HTTPClient *http.Client
	SessionID  string
	rng        *rand.Rand
}

// NewGameClient 创建客户端
func NewGameClient(baseURL string) *GameClient {
	return &GameClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// apiError 字段级错误响应
type apiError map[string]string

// CreateSession 创建游戏会话
func (c *GameClient) CreateSession(playerName string) (*game.SessionView, error) {
	fmt.Printf("🎯 创建游戏会话: %s\n", playerName)

	body := map[string]interface{}{"player_name": playerName}
	var view game.SessionView
	if err := c.postJSON("/api/v1/game", body, http.StatusCreated, &view); err != nil {
		return nil, err
	}

	c.SessionID = view.UUID
	fmt.Printf("✅ 会话创建成功: %s（%d只精灵）\n", view.UUID, view.ElvesRemaining)
	return &view, nil
}

// SubmitDay 提交一天的精灵分配
func (c *GameClient) SubmitDay(alloc game.Allocation) (*game.DayView, error) {
	var day game.DayView
	path := "/api/v1/game/" + c.SessionID + "/day"
	if err := c.postJSON(path, alloc, http.StatusCreated, &day); err != nil {
		return nil, err
	}
	return &day, nil
}

// GetSession 查询会话状态
func (c *GameClient) GetSession() (*game.SessionView, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/api/v1/game/" + c.SessionID)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("查询会话失败 [%d]: %s", resp.StatusCode, data)
	}

	var view game.SessionView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("解析响应失败: %v", err)
	}
	return &view, nil
}

// postJSON 发送JSON请求并解析响应
func (c *GameClient) postJSON(path string, body interface{}, wantStatus int, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("JSON编码失败: %v", err)
	}

	resp, err := c.HTTPClient.Post(c.BaseURL+path, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("请求失败: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %v", err)
	}

	if resp.StatusCode != wantStatus {
		var fields apiError
		if json.Unmarshal(data, &fields) == nil && len(fields) > 0 {
			return fmt.Errorf("服务端拒绝 [%d]: %v", resp.StatusCode, fields)
		}
		return fmt.Errorf("请求失败 [%d]: %s", resp.StatusCode, data)
	}

	return json.Unmarshal(data, out)
}

// planAllocation 随机拆分剩余精灵到三个地点，总数始终等于remaining
func (c *GameClient) planAllocation(remaining int) game.Allocation {
	woods := c.rng.Intn(remaining + 1)
	forest := c.rng.Intn(remaining - woods + 1)
	return game.Allocation{
		Woods:     woods,
		Forest:    forest,
		Mountains: remaining - woods - forest,
	}
}

// Play 自动打完一整局
func (c *GameClient) Play() error {
	view, err := c.GetSession()
	if err != nil {
		return err
	}

	for day := view.CurrentDay + 1; ; day++ {
		remaining := view.ElvesRemaining
		if remaining == 0 {
			fmt.Println("💀 精灵全部损失，无法继续派出")
			break
		}

		alloc := c.planAllocation(remaining)
		fmt.Printf("\n📅 第%d天：林地%d 森林%d 山区%d（共%d只）\n",
			day, alloc.Woods, alloc.Forest, alloc.Mountains, alloc.Sum())

		result, err := c.SubmitDay(alloc)
		if err != nil {
			return fmt.Errorf("第%d天提交失败: %v", day, err)
		}

		weatherIcon := "☀️"
		if result.Weather == "snow" {
			weatherIcon = "❄️"
		}
		fmt.Printf("%s 天气: %s | 返回: %d/%d | 今日收入: £%s\n",
			weatherIcon, result.Weather, result.ElvesReturned, result.ElvesSent, result.MoneyMade)

		view, err = c.GetSession()
		if err != nil {
			return err
		}
		fmt.Printf("   累计收入: £%s | 剩余精灵: %d\n", view.MoneyMade, view.ElvesRemaining)

		if view.Status(game.DefaultMaxDays) == game.StatusComplete {
			break
		}
	}

	fmt.Println("\n═══════════════════════════════════")
	fmt.Printf("🏁 游戏结束！总收入: £%s\n", view.MoneyMade)
	return nil
}

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "服务端地址")
		playerName = flag.String("name", "bot", "玩家名称")
	)
	flag.Parse()

	client := NewGameClient(*baseURL)

	if _, err := client.CreateSession(*playerName); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	if err := client.Play(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}
