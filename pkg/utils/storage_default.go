//go:build !android

package utils

// EnsureStorageDir 非 Android 平台无需预先创建目录，gdata 会自行处理
func EnsureStorageDir() error {
	return nil
}
