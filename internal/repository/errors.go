package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound id 没有对应的 hash 记录
	ErrNotFound = errors.New("not found")
	// ErrUnavailable Redis 不可达、批量命令返回传输层错误或超时，调用方可退避重试
	ErrUnavailable = errors.New("store unavailable")
	// ErrInvalidStatus 状态不属于该实体的取值集合
	ErrInvalidStatus = errors.New("invalid status")
	// ErrCorruptRecord hash 存在但缺少必需字段或字段无法解析
	ErrCorruptRecord = errors.New("corrupt record")
	// ErrContention 乐观事务多次冲突仍未提交
	ErrContention = errors.New("too much contention")
	// ErrIndexDrift 索引与 hash 不一致
	ErrIndexDrift = errors.New("index drift")
)

// isDomainErr 本包定义的业务错误原样返回，不包装为 ErrUnavailable
func isDomainErr(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrCorruptRecord) ||
		errors.Is(err, ErrContention)
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainErr(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
