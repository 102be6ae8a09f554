package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

// 测试创建新错误
func (suite *ErrorsTestSuite) TestNew() {
	// 测试基本错误创建
	err := New(ErrInvalidParam)
	suite.NotNil(err)
	suite.Equal(ErrInvalidParam, err.Code)
	suite.Equal("无效的参数", err.Message)
	suite.Empty(err.Details)

	// 测试带详情的错误
	err = New(ErrSessionNotFound, "会话不存在")
	suite.NotNil(err)
	suite.Equal(ErrSessionNotFound, err.Code)
	suite.Equal("游戏会话不存在", err.Message)
	suite.Equal("会话不存在", err.Details)

	// 测试多个详情
	err = New(ErrDatabaseConnect, "连接失败", "主机: localhost", "端口: 3306")
	suite.Equal("连接失败; 主机: localhost; 端口: 3306", err.Details)
}

// 测试格式化错误创建
func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrAllocationMismatch, "You must send exactly %d elves", 11)
	suite.NotNil(err)
	suite.Equal(ErrAllocationMismatch, err.Code)
	suite.Equal("You must send exactly 11 elves", err.Details)
}

// 测试字段级错误
func (suite *ErrorsTestSuite) TestWithField() {
	err := New(ErrInvalidAllocation).
		WithField("elves_woods", "This field must be >= 0")
	suite.NotNil(err.Fields)
	suite.Equal("This field must be >= 0", err.Fields["elves_woods"])

	// 追加第二个字段
	err.WithField("elves_forest", "This field must be >= 0")
	suite.Len(err.Fields, 2)
}

// 测试错误包装
func (suite *ErrorsTestSuite) TestWrap() {
	// 包装标准错误
	originalErr := errors.New("原始错误")
	wrappedErr := Wrap(originalErr, ErrDatabaseQuery)
	suite.NotNil(wrappedErr)
	suite.Equal(ErrDatabaseQuery, wrappedErr.Code)
	suite.Equal(originalErr, wrappedErr.Cause)
	suite.Equal("原始错误", wrappedErr.Details)

	// 包装nil错误
	suite.Nil(Wrap(nil, ErrDatabaseQuery))

	// 包装已有的AppError应保留原错误码
	appErr := New(ErrGameCompleted)
	rewrapped := Wrap(appErr, ErrUnknown)
	suite.Equal(ErrGameCompleted, rewrapped.Code)
}

// 测试错误码判断
func (suite *ErrorsTestSuite) TestIs() {
	err := New(ErrGameCompleted)
	suite.True(Is(err, ErrGameCompleted))
	suite.False(Is(err, ErrSessionNotFound))
	suite.False(Is(nil, ErrGameCompleted))
	suite.False(Is(errors.New("普通错误"), ErrGameCompleted))
}

// 测试获取错误码
func (suite *ErrorsTestSuite) TestGetCode() {
	suite.Equal(ErrorCode(0), GetCode(nil))
	suite.Equal(ErrConcurrentModify, GetCode(New(ErrConcurrentModify)))
	suite.Equal(ErrUnknown, GetCode(errors.New("普通错误")))
}

// 测试HTTP状态码映射
func (suite *ErrorsTestSuite) TestHTTPStatus() {
	suite.Equal(404, New(ErrSessionNotFound).HTTPStatus())
	suite.Equal(400, New(ErrGameCompleted).HTTPStatus())
	suite.Equal(400, New(ErrInvalidAllocation).HTTPStatus())
	suite.Equal(400, New(ErrAllocationMismatch).HTTPStatus())
	suite.Equal(409, New(ErrConcurrentModify).HTTPStatus())
	suite.Equal(400, New(ErrInvalidParam).HTTPStatus())
	suite.Equal(503, New(ErrDatabaseQuery).HTTPStatus())
	suite.Equal(500, New(ErrUnknown).HTTPStatus())
}

// 测试可重试判断
func (suite *ErrorsTestSuite) TestIsRetryable() {
	suite.True(IsRetryable(New(ErrConcurrentModify)))
	suite.True(IsRetryable(New(ErrDatabaseConnect)))
	suite.False(IsRetryable(New(ErrGameCompleted)))
	suite.False(IsRetryable(nil))
}

// 测试错误消息格式
func (suite *ErrorsTestSuite) TestError() {
	err := New(ErrAllocationMismatch)
	suite.Equal("[2003] 精灵数量不匹配", err.Error())

	err = New(ErrAllocationMismatch, "expected 11")
	suite.Equal("[2003] 精灵数量不匹配: expected 11", err.Error())
}

func TestErrorsTestSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
