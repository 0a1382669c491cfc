package service

import "errors"

// 生成请求的致命前置错误。类目内部的失败不在此列——它们被隔离、
// 记录并跳过，不会中断整个请求。
var (
	// ErrWeeklyStatusMissing 目标周缺少用户状态问卷，无法构建上下文
	ErrWeeklyStatusMissing = errors.New("目标周缺少用户状态问卷")

	// ErrRelationshipNotFound 关系记录不存在或拉取失败
	ErrRelationshipNotFound = errors.New("关系记录不存在")

	// ErrUserNotInRelationship 用户不是该关系的成员
	ErrUserNotInRelationship = errors.New("用户不在该关系中")
)
