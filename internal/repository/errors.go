package repository

import "errors"

// ErrClaimLost 条目的认领令牌已不匹配（超时后被其他进程重新认领）
var ErrClaimLost = errors.New("pending claim lost")
