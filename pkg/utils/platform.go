//go:build !mobile

package utils

import (
	"os"
	"strconv"
)

// MobileEmulateEnv 桌面端强制移动模式的环境变量
//
// 移动模式下粒子密度减半，自适应画质控制器才会工作；
// 在桌面窗口里设置它即可观察降档与恢复，无需真机。
const MobileEmulateEnv = "HEROFX_MOBILE_EMULATE"

// IsMobile 桌面端构建仅在 MobileEmulateEnv 为真值（1、true 等）时返回 true
func IsMobile() bool {
	on, err := strconv.ParseBool(os.Getenv(MobileEmulateEnv))
	return err == nil && on
}
