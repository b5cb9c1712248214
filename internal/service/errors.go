// Package service 包含了应用的业务逻辑层。
package service

import (
	"errors"

	"brainbytes-go/internal/repository"
)

var (
	// ErrInvalidInput 表示请求参数缺失或不合法。
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateEmail 表示邮箱已被其他用户使用。
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrUnavailable 表示依赖的可选基础设施未启用。
	ErrUnavailable = errors.New("service unavailable")
	// ErrNotFound 与 repository.ErrNotFound 相同，方便处理器统一判断。
	ErrNotFound = repository.ErrNotFound
)
