package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gcide/internal/config"
	"gcide/internal/engine"
	"gcide/internal/exporter"
	"gcide/internal/importer"
	"gcide/internal/server"
	"gcide/internal/store"
)

var (
	file       = flag.String("file", "", "解析单个数控程序，结果以 JSON 输出到标准输出")
	dir        = flag.String("dir", "", "批量解析目录下的全部数控程序并入库")
	serve      = flag.Bool("serve", false, "启动 HTTP API 服务")
	exportPath = flag.String("export", "", "导出目录库清单工作簿到指定路径")
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	switch {
	case *file != "":
		os.Exit(runFile(cfg, *file))
	case *dir != "":
		os.Exit(runDir(cfg, *dir))
	case *exportPath != "":
		os.Exit(runExport(cfg, *exportPath))
	case *serve:
		runServe(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// runFile 解析单个程序并输出 JSON
//
// 解析本身成功即返回 0——校验结论（含撞刀风险）属于结果而非错误；
// 只有文件不可读才算失败。
func runFile(cfg *config.AppConfig, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取程序失败: %v\n", err)
		return 1
	}

	res := engine.New(cfg.Engine).ParseString(filepath.Base(path), string(data))

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "序列化结果失败: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

// runDir 批量解析目录并入库，进度打印到标准错误
func runDir(cfg *config.AppConfig, dir string) int {
	s, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer s.Close()

	c := importer.NewCoordinator(engine.New(cfg.Engine), s, cfg.Batch)

	for ev := range c.ImportDir(dir) {
		switch ev.Type {
		case "error":
			fmt.Fprintf(os.Stderr, "错误: %s\n", ev.Message)
		case "done":
			report := ev.Data.(*importer.BatchReport)
			fmt.Fprintf(os.Stderr, "%s\n", ev.Message)
			fmt.Printf("共 %d 个程序，解析 %d：通过 %d，告警 %d，尺寸异常 %d，撞刀风险 %d（耗时 %s）\n",
				report.Total, report.Parsed,
				report.PassCount, report.WarningCount,
				report.CriticalCount, report.CrashCount,
				report.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(os.Stderr, "%s\n", ev.Message)
		}
	}
	return 0
}

// runExport 导出目录库清单
func runExport(cfg *config.AppConfig, outPath string) int {
	s, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer s.Close()

	if err := exporter.NewExporter(s).ExportToFile(outPath); err != nil {
		fmt.Fprintf(os.Stderr, "导出失败: %v\n", err)
		return 1
	}
	fmt.Printf("已导出: %s\n", outPath)
	return 0
}

// runServe 启动 HTTP API 服务
func runServe(cfg *config.AppConfig) {
	fmt.Println("==========================================")
	fmt.Println("  GCIDE - 数控程序尺寸解析服务")
	fmt.Println("==========================================")

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("初始化服务失败: %v", err)
	}
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
}

func openStore(cfg *config.AppConfig) (*store.Store, error) {
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	s, err := store.New(filepath.Join(dataDir, "gcide.db"))
	if err != nil {
		return nil, fmt.Errorf("初始化目录库失败: %w", err)
	}
	return s, nil
}
