//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。
//
//	# Android
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.herofx -o build/android/herofx.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	ebitenmobile bind -target ios -tags mobile -o build/ios/HeroFX.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/herofx/pkg/app"
	"github.com/decker502/herofx/pkg/embedded"
)

func init() {
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	fieldCfg, err := app.LoadFieldConfig("")
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	fieldApp, err := app.NewApp(app.Config{
		Verbose: true, // Enable verbose logging for debugging
		Field:   fieldCfg,
	})
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	// 注册到 ebitenmobile
	mobile.SetGame(fieldApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
