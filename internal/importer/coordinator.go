package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"gcide/internal/config"
	"gcide/internal/engine"
	"gcide/internal/model"
	"gcide/internal/store"
)

// Coordinator 批量解析协调器：扫描目录、并行解析、入库并上报进度
type Coordinator struct {
	engine *engine.Engine
	store  *store.Store
	cfg    config.BatchConfig
}

// NewCoordinator 创建批量解析协调器
//
// store 为 nil 时只解析不落库（纯校验场景）。
func NewCoordinator(eng *engine.Engine, s *store.Store, cfg config.BatchConfig) *Coordinator {
	return &Coordinator{
		engine: eng,
		store:  s,
		cfg:    cfg,
	}
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/program_done/done/error
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data"`    // 附加数据
	Timestamp time.Time   `json:"timestamp"`
}

// BatchReport 批量解析汇总
type BatchReport struct {
	SourceDir     string               `json:"sourceDir"`
	Total         int                  `json:"total"`
	Parsed        int                  `json:"parsed"`
	PassCount     int                  `json:"passCount"`
	WarningCount  int                  `json:"warningCount"`
	CriticalCount int                  `json:"criticalCount"`
	CrashCount    int                  `json:"crashCount"`
	Duration      time.Duration        `json:"duration"`
	Results       []*model.ParseResult `json:"results"`
}

// ImportDir 批量解析目录，返回进度通道；done 事件携带 *BatchReport
func (c *Coordinator) ImportDir(dir string) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(dir, progressChan)
	}()

	return progressChan
}

func (c *Coordinator) doImport(dir string, progressChan chan ProgressEvent) {
	startTime := time.Now()

	files, err := c.listProgramFiles(dir)
	if err != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("扫描目录失败: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("发现 %d 个数控程序", len(files)),
		Data: map[string]interface{}{
			"dir":   dir,
			"total": len(files),
		},
		Timestamp: time.Now(),
	})

	report := &BatchReport{
		SourceDir: dir,
		Total:     len(files),
	}

	results := c.parseAll(files, progressChan)

	// 汇总按文件名稳定排序，与扫描顺序无关
	sort.Slice(results, func(i, j int) bool {
		return results[i].ProgramName < results[j].ProgramName
	})

	for _, res := range results {
		report.Parsed++
		switch res.Status {
		case model.StatusPass:
			report.PassCount++
		case model.StatusWarning, model.StatusBoreWarning:
			report.WarningCount++
		case model.StatusDimensionCritical:
			report.CriticalCount++
		case model.StatusCrashRisk:
			report.CrashCount++
		}
	}
	report.Results = results
	report.Duration = time.Since(startTime)

	if c.store != nil {
		if err := c.store.InsertBatchLog(store.BatchLogEntry{
			SourceDir:     dir,
			Total:         report.Total,
			Parsed:        report.Parsed,
			PassCount:     report.PassCount,
			WarningCount:  report.WarningCount,
			CriticalCount: report.CriticalCount,
			CrashCount:    report.CrashCount,
			Duration:      report.Duration,
		}); err != nil {
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "error",
				Message:   fmt.Sprintf("写入批量日志失败: %v", err),
				Timestamp: time.Now(),
			})
		}
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "done",
		Message:   "批量解析完成",
		Data:      report,
		Timestamp: time.Now(),
	})
}

// parseAll 工作池并行解析；入库串行化在各工作协程对 SaveResult 的调用内完成
func (c *Coordinator) parseAll(files []string, progressChan chan ProgressEvent) []*model.ParseResult {
	workers := c.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var results []*model.ParseResult
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				res := c.parseOne(path, progressChan)
				if res == nil {
					continue
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	return results
}

func (c *Coordinator) parseOne(path string, progressChan chan ProgressEvent) *model.ParseResult {
	data, err := os.ReadFile(path)
	if err != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("读取 %s 失败: %v", filepath.Base(path), err),
			Timestamp: time.Now(),
		})
		return nil
	}

	res := c.engine.ParseString(filepath.Base(path), string(data))

	if c.store != nil {
		if _, err := c.store.SaveResult(res); err != nil {
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "error",
				Message:   fmt.Sprintf("保存 %s 失败: %v", res.ProgramName, err),
				Timestamp: time.Now(),
			})
		}
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "program_done",
		Message: fmt.Sprintf("解析完成: %s [%s]", res.ProgramName, res.Status),
		Data: map[string]interface{}{
			"name":   res.ProgramName,
			"status": string(res.Status),
		},
		Timestamp: time.Now(),
	})

	return res
}

// listProgramFiles 列出目录下识别为数控程序的文件（不递归）
func (c *Coordinator) listProgramFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if c.matchExtension(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (c *Coordinator) matchExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range c.cfg.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// sendProgress 发送进度事件（非阻塞，通道满时丢弃）
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
	}
}
