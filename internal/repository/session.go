package repository

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/wfunc/elf-game/internal/errors"
	"github.com/wfunc/elf-game/internal/models"
	"gorm.io/gorm"
)

// 会话活跃状态过滤
const (
	FilterActiveOnly     = "only"     // 仅未完成的会话
	FilterActiveComplete = "complete" // 仅已完成的会话
)

// SessionFilter 会话列表过滤条件
type SessionFilter struct {
	Active  string // ""、only、complete
	MaxDays int    // 判定完成所需的天数
}

// SessionRepository 游戏会话仓储接口
type SessionRepository interface {
	BaseRepository
	Create(ctx context.Context, session *models.Session) error
	FindByUUID(ctx context.Context, uuid string) (*models.Session, error)
	List(ctx context.Context, filter SessionFilter, p *Pagination) ([]*models.Session, error)
	AppendDay(ctx context.Context, sessionUUID string, day *models.Day) error
	ListDays(ctx context.Context, sessionUUID string) ([]*models.Day, error)
	CountDays(ctx context.Context, sessionUUID string) (int64, error)
}

// sessionRepo 游戏会话仓储实现
type sessionRepo struct {
	*BaseRepo
}

// NewSessionRepository 创建游戏会话仓储
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepo{
		BaseRepo: NewBaseRepo(db),
	}
}

// orderByDay Day预加载排序（day升序，保证序列密集性校验和派生值正确）
func orderByDay(db *gorm.DB) *gorm.DB {
	return db.Order("day ASC")
}

// Create 创建游戏会话
func (r *sessionRepo) Create(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrDatabaseInsert, "创建会话失败")
	}
	return nil
}

// FindByUUID 根据UUID查找会话，按day升序预加载所有Day
func (r *sessionRepo) FindByUUID(ctx context.Context, uuid string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Preload("Days", orderByDay).
		First(&session, "uuid = ?", uuid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.ErrSessionNotFound, "session %s not found", uuid)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery, "查询会话失败")
	}
	return &session, nil
}

// List 查询会话列表，支持活跃状态过滤和分页
func (r *sessionRepo) List(ctx context.Context, filter SessionFilter, p *Pagination) ([]*models.Session, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Preload("Days", orderByDay).
		Order("created_at DESC")

	// 按完成状态过滤（子查询统计Day数量）
	if filter.Active != "" {
		sub := r.db.Model(&models.Day{}).
			Select("count(*)").
			Where("game_days.session_uuid = game_sessions.uuid")

		switch filter.Active {
		case FilterActiveOnly:
			q = q.Where("(?) < ?", sub, filter.MaxDays)
		case FilterActiveComplete:
			q = q.Where("(?) >= ?", sub, filter.MaxDays)
		default:
			return nil, apperrors.Newf(apperrors.ErrInvalidParam, "无效的过滤条件: %s", filter.Active)
		}
	}

	if p != nil {
		if err := q.Count(&p.Total).Error; err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery, "统计会话数量失败")
		}
		q = q.Scopes(Paginate(p))
	}

	var sessions []*models.Session
	if err := q.Find(&sessions).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery, "查询会话列表失败")
	}
	return sessions, nil
}

// AppendDay 追加一天的结算记录
// (session_uuid, day) 唯一索引保证同一逻辑槽位只有一个写入者胜出，
// 竞争失败方得到 ErrConcurrentModify
func (r *sessionRepo) AppendDay(ctx context.Context, sessionUUID string, day *models.Day) error {
	day.SessionUUID = sessionUUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(day).Error
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return apperrors.Newf(apperrors.ErrConcurrentModify,
				"day %d already settled for session %s", day.Day, sessionUUID).WithCause(err)
		}
		return apperrors.Wrap(err, apperrors.ErrDatabaseInsert, "写入结算记录失败")
	}
	return nil
}

// ListDays 按day升序返回会话的全部结算记录
func (r *sessionRepo) ListDays(ctx context.Context, sessionUUID string) ([]*models.Day, error) {
	var days []*models.Day
	err := r.db.WithContext(ctx).
		Where("session_uuid = ?", sessionUUID).
		Order("day ASC").
		Find(&days).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery, "查询结算记录失败")
	}
	return days, nil
}

// CountDays 统计会话已结算的天数
func (r *sessionRepo) CountDays(ctx context.Context, sessionUUID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Day{}).
		Where("session_uuid = ?", sessionUUID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrDatabaseQuery, "统计天数失败")
	}
	return count, nil
}

// isDuplicateKeyError 判断是否为唯一索引冲突
// 不同驱动的报错文本不同，这里同时检查gorm的翻译错误和原始消息
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key value") // postgres
}
