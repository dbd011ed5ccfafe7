//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 确保 Android 上设置文件所在目录存在并可写
//
// gdata 在 Android 上把数据写到 /data/data/{package}/ 下，但不会预先创建子目录，
// 必须在 gdata.Open 之前调用。
func EnsureStorageDir() error {
	pkg, err := androidPackage()
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}

	dir := filepath.Join("/data/data", pkg, "settings")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", dir, err)
	}
	return os.Remove(probe)
}

// androidPackage 从 /proc/self/cmdline 读取进程名，即应用包名
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(strings.ReplaceAll(string(data), "\x00", ""))
	if name == "" {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return name, nil
}
