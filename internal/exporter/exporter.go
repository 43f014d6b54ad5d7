package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gcide/internal/store"
)

// Exporter 目录库清单导出器：生成解析结果工作簿
type Exporter struct {
	store *store.Store
}

// NewExporter 创建导出器
func NewExporter(s *store.Store) *Exporter {
	return &Exporter{store: s}
}

const (
	sheetPrograms = "解析结果"
	sheetFindings = "校验结论"
)

var programHeaders = []string{
	"程序名", "标题", "结构族", "状态",
	"外径", "厚度", "中心孔", "轮毂直径", "轮毂高度", "沉孔", "钻深",
	"解析时间",
}

var findingHeaders = []string{"程序名", "级别", "代码", "说明"}

// Export 导出全部程序记录为 Excel 工作簿
func (e *Exporter) Export() (*excelize.File, error) {
	records, err := e.store.ListPrograms(store.ProgramQueryOptions{})
	if err != nil {
		return nil, fmt.Errorf("读取程序记录失败: %w", err)
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetPrograms)
	if _, err := f.NewSheet(sheetFindings); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("创建结论表失败: %w", err)
	}

	if err := e.fillPrograms(f, records); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillFindings(f, records); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// ExportToFile 导出并写入文件
func (e *Exporter) ExportToFile(path string) error {
	f, err := e.Export()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存工作簿失败: %w", err)
	}
	return nil
}

func (e *Exporter) fillPrograms(f *excelize.File, records []store.ProgramRecord) error {
	if err := writeRow(f, sheetPrograms, 1, toCells(programHeaders)); err != nil {
		return err
	}

	for i, rec := range records {
		row := []interface{}{
			rec.Name, rec.TitleRaw, rec.Family, rec.Status,
			dimCell(rec.OuterDiameter), dimCell(rec.Thickness), dimCell(rec.CenterBore),
			dimCell(rec.HubDiameter), dimCell(rec.HubHeight), dimCell(rec.Counterbore),
			dimCell(rec.DrillDepth),
			rec.ParsedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(f, sheetPrograms, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillFindings(f *excelize.File, records []store.ProgramRecord) error {
	if err := writeRow(f, sheetFindings, 1, toCells(findingHeaders)); err != nil {
		return err
	}

	row := 2
	for _, rec := range records {
		findings, err := e.store.GetFindings(rec.ID)
		if err != nil {
			return fmt.Errorf("读取 %s 的结论失败: %w", rec.Name, err)
		}
		for _, finding := range findings {
			cells := []interface{}{rec.Name, string(finding.Severity), finding.Code, finding.Message}
			if err := writeRow(f, sheetFindings, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("定位第 %d 行失败: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("写入第 %d 行失败: %w", row, err)
	}
	return nil
}

// dimCell 未解析尺寸导出为空单元格而非 0
func dimCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func toCells(headers []string) []interface{} {
	cells := make([]interface{}, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}
