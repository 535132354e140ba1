package version

import (
	"fmt"
	"runtime/debug"
)

// Name 是二进制与日志中使用的产品名。
const Name = "static-hub"

// Version/Commit 可在构建时通过 -ldflags 注入，默认使用开发占位符。
var (
	Version = "0.1.0"
	Commit  = "dev"
)

// Full 返回便于 CLI 打印的完整版本信息。
func Full() string {
	return fmt.Sprintf("%s %s (%s)", Name, Version, commit())
}

// commit 在未注入 Commit 时回退到 go build 记录的 vcs.revision。
func commit() string {
	if Commit != "dev" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Commit
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return setting.Value[:7]
		}
	}
	return Commit
}
