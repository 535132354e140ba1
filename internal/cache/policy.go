package cache

import (
	"fmt"
	"regexp"
	"strings"
)

// Policy 决定某个解码后的请求路径是否启用共享缓存，每个请求只评估一次。
type Policy interface {
	Match(key string) bool
}

// PolicyFunc 将普通函数适配为 Policy。
type PolicyFunc func(key string) bool

// Match 使 PolicyFunc 满足 Policy。
func (f PolicyFunc) Match(key string) bool {
	return f(key)
}

var (
	// Always 对所有路径启用缓存。
	Always Policy = PolicyFunc(func(string) bool { return true })
	// Never 对所有路径禁用缓存，每次请求都重新探测文件系统。
	Never Policy = PolicyFunc(func(string) bool { return false })
)

// MatchPattern 以正则表达式构造 Policy；空字符串返回 Never，"*" 返回 Always。
func MatchPattern(pattern string) (Policy, error) {
	switch strings.TrimSpace(pattern) {
	case "":
		return Never, nil
	case "*":
		return Always, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid cache pattern %q: %w", pattern, err)
	}
	return PolicyFunc(re.MatchString), nil
}
