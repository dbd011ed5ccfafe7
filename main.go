// herofx 桌面端入口
//
// 在窗口中模拟一个带 hero 区域的页面：窗口即视口，滚轮滚动页面，
// 粒子场只在窗口获得焦点且 hero 区域可见时运行。
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--verbose       启用详细日志
//	--config <path> 使用磁盘上的粒子场配置（默认使用内置 data/field.yaml）
//	--stats         显示统计信息
//	--fullscreen    全屏启动
//
// Controls:
//
//	Mouse / Touch   - 吸引附近的粒子
//	Wheel / Drag    - 滚动页面
//	F3              - 切换统计信息
//	F11             - 切换全屏
//	Escape          - 退出
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/herofx/pkg/app"
	"github.com/decker502/herofx/pkg/embedded"
)

var (
	verboseFlag    = flag.Bool("verbose", false, "Enable verbose logging (default off)")
	configFlag     = flag.String("config", "", "Path to a field config YAML (default: embedded data/field.yaml)")
	statsFlag      = flag.Bool("stats", false, "Show the stats overlay")
	fullscreenFlag = flag.Bool("fullscreen", false, "Start in fullscreen")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	fieldCfg, err := app.LoadFieldConfig(*configFlag)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	fieldApp, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		Field:      fieldCfg,
		ShowStats:  *statsFlag,
		Fullscreen: *fullscreenFlag,
	})
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("herofx")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(fieldApp); err != nil && !app.IsTermination(err) {
		log.Fatal(err)
	}

	fieldApp.Close()
	log.Println("[App] Closed")
	os.Exit(0)
}
