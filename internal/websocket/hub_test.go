package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/elf-game/internal/game"
	"go.uber.org/zap"
)

// newTestClient 创建不带真实连接的客户端并注册到Hub
func newTestClient(t *testing.T, hub *Hub, sessionID string) *Client {
	client := NewClient(hub, nil, sessionID)
	hub.Register(client)

	// 消费注册时下发的connected消息
	msg := recvMessage(t, client)
	require.Equal(t, MessageTypeConnected, msg.Type)
	return client
}

// recvMessage 从客户端发送通道读取一条消息
func recvMessage(t *testing.T, client *Client) *Message {
	select {
	case data := <-client.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	case <-time.After(time.Second):
		t.Fatal("等待消息超时")
		return nil
	}
}

// assertNoMessage 断言客户端没有收到消息
func assertNoMessage(t *testing.T, client *Client) {
	select {
	case data := <-client.Send:
		t.Fatalf("不应收到消息: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestHubPublishSession 测试会话更新只投递给订阅者和大厅
func TestHubPublishSession(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	subscriberA := newTestClient(t, hub, "session-a")
	subscriberB := newTestClient(t, hub, "session-b")
	lobby := newTestClient(t, hub, "")

	view := &game.SessionView{
		UUID:           "session-a",
		PlayerName:     "张三",
		CurrentDay:     3,
		ElvesRemaining: 10,
	}
	hub.PublishSession("session-a", view)

	// 订阅了session-a的客户端收到更新
	msg := recvMessage(t, subscriberA)
	assert.Equal(t, MessageTypeSessionUpdate, msg.Type)
	assert.Equal(t, "session-a", msg.SessionID)

	var got game.SessionView
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, "张三", got.PlayerName)
	assert.Equal(t, 3, got.CurrentDay)

	// 大厅客户端收到所有会话的更新
	msg = recvMessage(t, lobby)
	assert.Equal(t, MessageTypeSessionUpdate, msg.Type)

	// 订阅了其他会话的客户端不收
	assertNoMessage(t, subscriberB)
}

// TestHubUnregister 测试注销后不再接收广播
func TestHubUnregister(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := newTestClient(t, hub, "session-a")
	assert.Equal(t, 1, hub.GetOnlineCount())

	hub.Unregister(client)

	// 等待注销完成（Send通道被关闭）
	select {
	case _, ok := <-client.Send:
		assert.False(t, ok, "注销后发送通道应被关闭")
	case <-time.After(time.Second):
		t.Fatal("等待注销超时")
	}
	assert.Equal(t, 0, hub.GetOnlineCount())
}

// TestHubSendToClient 测试定向发送
func TestHubSendToClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := newTestClient(t, hub, "")

	err := hub.SendToClient(client.ID, &Message{
		Type:      MessageTypePing,
		Timestamp: time.Now().Unix(),
	})
	require.NoError(t, err)

	msg := recvMessage(t, client)
	assert.Equal(t, MessageTypePing, msg.Type)

	// 不存在的客户端
	err = hub.SendToClient("no-such-client", &Message{Type: MessageTypePing})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

// TestClientSubscribeSwitch 测试订阅切换
func TestClientSubscribeSwitch(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()

	client := newTestClient(t, hub, "")
	assert.Equal(t, "", client.SessionID())

	raw, err := json.Marshal(&Message{
		Type:      MessageTypeSubscribe,
		SessionID: "session-a",
	})
	require.NoError(t, err)
	client.handleMessage(raw)

	assert.Equal(t, "session-a", client.SessionID())
	ack := recvMessage(t, client)
	assert.Equal(t, MessageTypeSubscribed, ack.Type)
	assert.Equal(t, "session-a", ack.SessionID)

	// 切换后只收到新会话的更新
	hub.PublishSession("session-b", &game.SessionView{UUID: "session-b"})
	assertNoMessage(t, client)

	hub.PublishSession("session-a", &game.SessionView{UUID: "session-a"})
	msg := recvMessage(t, client)
	assert.Equal(t, "session-a", msg.SessionID)
}
