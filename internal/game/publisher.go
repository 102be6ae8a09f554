package game

// SessionPublisher 会话公开状态发布接口
// 尽力而为的扇出：个别订阅者投递失败不得影响结算流程，
// 实现方自行处理失败（记日志、断开慢客户端等）
type SessionPublisher interface {
	PublishSession(sessionUUID string, view *SessionView)
}

// NopPublisher 空发布器（无WebSocket服务或测试时使用）
type NopPublisher struct{}

// PublishSession 什么都不做
func (NopPublisher) PublishSession(sessionUUID string, view *SessionView) {}
