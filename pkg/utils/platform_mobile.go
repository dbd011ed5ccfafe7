//go:build mobile

package utils

// IsMobile 移动端构建始终视为移动设备，与视口宽度无关
func IsMobile() bool {
	return true
}
