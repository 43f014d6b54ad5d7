package importer

import (
	"os"
	"path/filepath"
	"testing"

	"gcide/internal/config"
	"gcide/internal/engine"
	"gcide/internal/store"
)

const passProgram = `(5.0 X 1.25 CB 3.07)
T0101 (DRILL)
G00 Z0.1
G01 Z-1.4 F0.012
G00 Z0.1
T0303 (BORE)
G01 X3.07 Z-1.4 F0.008 (CB)
G00 Z0.1`

const crashProgram = `(5.0 X 1.0 CB 3.00)
T0101 (DRILL)
G00 X3.0 Z-0.5
G01 Z-1.15 F0.01
G00 Z0.1`

func writeProgram(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func collectReport(t *testing.T, events <-chan ProgressEvent) *BatchReport {
	t.Helper()
	var report *BatchReport
	for ev := range events {
		if ev.Type == "error" {
			t.Fatalf("unexpected error event: %s", ev.Message)
		}
		if ev.Type == "done" {
			report = ev.Data.(*BatchReport)
		}
	}
	if report == nil {
		t.Fatal("no done event received")
	}
	return report
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "good.nc", passProgram)
	writeProgram(t, dir, "crash.tap", crashProgram)
	writeProgram(t, dir, "notes.bak", "not a program")

	s, err := store.New(filepath.Join(t.TempDir(), "gcide.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer s.Close()

	c := NewCoordinator(engine.NewDefault(), s, config.DefaultConfig().Batch)
	report := collectReport(t, c.ImportDir(dir))

	// .bak 不在扩展名列表中，不参与解析
	if report.Total != 2 || report.Parsed != 2 {
		t.Fatalf("total/parsed = %d/%d, want 2/2", report.Total, report.Parsed)
	}
	if report.PassCount != 1 || report.CrashCount != 1 {
		t.Fatalf("pass/crash = %d/%d, want 1/1: %+v", report.PassCount, report.CrashCount, report.Results)
	}

	// 解析结果已入库
	n, err := s.CountPrograms()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("stored programs = %d, want 2", n)
	}

	// 批量日志已记录
	last, err := s.LastBatchLog()
	if err != nil {
		t.Fatalf("batch log: %v", err)
	}
	if last.Parsed != 2 {
		t.Fatalf("logged parsed = %d, want 2", last.Parsed)
	}
}

// 汇总结果按文件名稳定排序，与工作池完成顺序无关
func TestImportDirStableOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.nc", "a.nc", "b.nc"} {
		writeProgram(t, dir, name, passProgram)
	}

	c := NewCoordinator(engine.NewDefault(), nil, config.BatchConfig{
		Workers:    3,
		Extensions: []string{".nc"},
	})
	report := collectReport(t, c.ImportDir(dir))

	if len(report.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(report.Results))
	}
	for i, want := range []string{"a.nc", "b.nc", "c.nc"} {
		if report.Results[i].ProgramName != want {
			t.Fatalf("results[%d] = %s, want %s", i, report.Results[i].ProgramName, want)
		}
	}
}

func TestImportDirMissing(t *testing.T) {
	c := NewCoordinator(engine.NewDefault(), nil, config.DefaultConfig().Batch)

	events := c.ImportDir(filepath.Join(t.TempDir(), "nope"))
	sawError := false
	for ev := range events {
		if ev.Type == "error" {
			sawError = true
		}
		if ev.Type == "done" {
			t.Fatal("missing directory should not produce a report")
		}
	}
	if !sawError {
		t.Fatal("expected error event")
	}
}

// 同名程序不同批次解析结果保持一致（引擎无共享状态）
func TestImportDirDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "good.nc", passProgram)

	c := NewCoordinator(engine.NewDefault(), nil, config.DefaultConfig().Batch)

	first := collectReport(t, c.ImportDir(dir))
	second := collectReport(t, c.ImportDir(dir))

	if first.Results[0].Status != second.Results[0].Status {
		t.Fatalf("statuses differ: %s vs %s",
			first.Results[0].Status, second.Results[0].Status)
	}
	if first.Results[0].Dimensions != second.Results[0].Dimensions {
		t.Fatalf("dimensions differ:\n%+v\n%+v",
			first.Results[0].Dimensions, second.Results[0].Dimensions)
	}
}
