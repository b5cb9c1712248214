package repository

import "errors"

// ErrNotFound 表示请求的记录不存在，屏蔽底层存储的差异。
var ErrNotFound = errors.New("record not found")
