package app

import (
	"fmt"
	"log"

	"github.com/decker502/herofx/pkg/config"
	"github.com/decker502/herofx/pkg/embedded"
)

// DefaultFieldConfigPath 内置粒子场配置在嵌入文件系统中的路径
const DefaultFieldConfigPath = "data/field.yaml"

// LoadFieldConfig 加载粒子场配置
//
// path 非空时从磁盘读取；否则读取嵌入的 data/field.yaml，
// 嵌入资源不可用时退回内置默认值。
func LoadFieldConfig(path string) (*config.FieldConfig, error) {
	if path != "" {
		cfg, err := config.LoadFieldConfig(path)
		if err != nil {
			return nil, err
		}
		log.Printf("[Config] 加载粒子场配置: %s", path)
		return cfg, nil
	}

	if !embedded.IsInitialized() {
		log.Printf("[Config] 嵌入资源未初始化，使用内置默认配置")
		return config.DefaultFieldConfig(), nil
	}

	data, err := embedded.ReadFile(DefaultFieldConfigPath)
	if err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}
	return config.ParseFieldConfig(data)
}
