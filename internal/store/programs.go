package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gcide/internal/model"
)

// ErrNotFound 目录库中不存在指定记录
var ErrNotFound = errors.New("record not found")

// ProgramRecord 目录库中的单条程序记录
// 尺寸字段为 nil 表示该尺寸未解析；来源字段与尺寸字段同生同灭
type ProgramRecord struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	TitleRaw string    `json:"titleRaw"`
	Family   string    `json:"family"`
	Status   string    `json:"status"`
	ParsedAt time.Time `json:"parsedAt"`

	OuterDiameter *float64 `json:"outerDiameter,omitempty"`
	Thickness     *float64 `json:"thickness,omitempty"`
	CenterBore    *float64 `json:"centerBore,omitempty"`
	HubDiameter   *float64 `json:"hubDiameter,omitempty"`
	HubHeight     *float64 `json:"hubHeight,omitempty"`
	Counterbore   *float64 `json:"counterbore,omitempty"`
	DrillDepth    *float64 `json:"drillDepth,omitempty"`

	OuterDiameterSource *string `json:"outerDiameterSource,omitempty"`
	ThicknessSource     *string `json:"thicknessSource,omitempty"`
	CenterBoreSource    *string `json:"centerBoreSource,omitempty"`
	HubDiameterSource   *string `json:"hubDiameterSource,omitempty"`
	HubHeightSource     *string `json:"hubHeightSource,omitempty"`
	CounterboreSource   *string `json:"counterboreSource,omitempty"`
	DrillDepthSource    *string `json:"drillDepthSource,omitempty"`
}

// ProgramQueryOptions 程序列表查询条件
type ProgramQueryOptions struct {
	Family *string
	Status *string
	Limit  int
	Offset int
}

// SaveResult 持久化一次解析结果，按程序名覆盖旧记录，返回记录 ID
func (s *Store) SaveResult(res *model.ParseResult) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin save tx failed: %w", err)
	}
	defer tx.Rollback()

	// 同名程序重解析时整体替换，级联清除旧结论
	if _, err := tx.Exec(`DELETE FROM programs WHERE name = ?`, res.ProgramName); err != nil {
		return "", fmt.Errorf("delete previous record failed: %w", err)
	}

	id := uuid.New().String()
	titleRaw := ""
	if res.Title != nil {
		titleRaw = res.Title.Raw
	}

	_, err = tx.Exec(`
		INSERT INTO programs (
			id, name, title_raw, family, status,
			outer_diameter, outer_diameter_src,
			thickness, thickness_src,
			center_bore, center_bore_src,
			hub_diameter, hub_diameter_src,
			hub_height, hub_height_src,
			counterbore, counterbore_src,
			drill_depth, drill_depth_src
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.ProgramName, titleRaw, string(res.Family), string(res.Status),
		dimValue(res.Dimensions.OuterDiameter), dimSource(res.Dimensions.OuterDiameter),
		dimValue(res.Dimensions.Thickness), dimSource(res.Dimensions.Thickness),
		dimValue(res.Dimensions.CenterBore), dimSource(res.Dimensions.CenterBore),
		dimValue(res.Dimensions.HubDiameter), dimSource(res.Dimensions.HubDiameter),
		dimValue(res.Dimensions.HubHeight), dimSource(res.Dimensions.HubHeight),
		dimValue(res.Dimensions.Counterbore), dimSource(res.Dimensions.Counterbore),
		dimValue(res.DrillDepth), dimSource(res.DrillDepth),
	)
	if err != nil {
		return "", fmt.Errorf("insert program failed: %w", err)
	}

	for _, f := range res.Findings {
		if _, err := tx.Exec(`
			INSERT INTO findings (program_id, severity, code, message)
			VALUES (?, ?, ?, ?)`,
			id, string(f.Severity), f.Code, f.Message,
		); err != nil {
			return "", fmt.Errorf("insert finding failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save tx failed: %w", err)
	}
	return id, nil
}

// ListPrograms 按条件列出程序记录（按解析时间倒序）
func (s *Store) ListPrograms(opts ProgramQueryOptions) ([]ProgramRecord, error) {
	query := `
		SELECT id, name, title_raw, family, status, parsed_at,
		       outer_diameter, outer_diameter_src,
		       thickness, thickness_src,
		       center_bore, center_bore_src,
		       hub_diameter, hub_diameter_src,
		       hub_height, hub_height_src,
		       counterbore, counterbore_src,
		       drill_depth, drill_depth_src
		FROM programs`

	var conds []string
	var args []interface{}
	if opts.Family != nil {
		conds = append(conds, "family = ?")
		args = append(args, *opts.Family)
	}
	if opts.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, *opts.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	query += " ORDER BY parsed_at DESC, name ASC"
	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query programs failed: %w", err)
	}
	defer rows.Close()

	var out []ProgramRecord
	for rows.Next() {
		rec, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs failed: %w", err)
	}
	return out, nil
}

// GetProgram 按 ID 获取单条程序记录
func (s *Store) GetProgram(id string) (*ProgramRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, name, title_raw, family, status, parsed_at,
		       outer_diameter, outer_diameter_src,
		       thickness, thickness_src,
		       center_bore, center_bore_src,
		       hub_diameter, hub_diameter_src,
		       hub_height, hub_height_src,
		       counterbore, counterbore_src,
		       drill_depth, drill_depth_src
		FROM programs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query program failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}
	return scanProgram(rows)
}

// GetFindings 获取程序的全部校验结论
func (s *Store) GetFindings(programID string) ([]model.ValidationFinding, error) {
	rows, err := s.db.Query(`
		SELECT severity, code, message FROM findings
		WHERE program_id = ? ORDER BY id ASC`, programID)
	if err != nil {
		return nil, fmt.Errorf("query findings failed: %w", err)
	}
	defer rows.Close()

	var out []model.ValidationFinding
	for rows.Next() {
		var f model.ValidationFinding
		var severity string
		if err := rows.Scan(&severity, &f.Code, &f.Message); err != nil {
			return nil, fmt.Errorf("scan finding failed: %w", err)
		}
		f.Severity = model.Severity(severity)
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteProgram 删除程序记录（结论级联删除）
func (s *Store) DeleteProgram(id string) error {
	result, err := s.db.Exec(`DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete program failed: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountPrograms 程序总数
func (s *Store) CountPrograms() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM programs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count programs failed: %w", err)
	}
	return n, nil
}

// StatusCounts 各整体状态的程序数
func (s *Store) StatusCounts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(1) FROM programs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count failed: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// dimensionColumns 允许抽样的尺寸列白名单
var dimensionColumns = map[string]bool{
	"outer_diameter": true,
	"thickness":      true,
	"center_bore":    true,
	"hub_diameter":   true,
	"hub_height":     true,
	"counterbore":    true,
}

// DimensionSamples 某族某尺寸列的全部已解析历史值（供统计估算）
// 估算回填值不计入样本，避免估算结果自我强化
func (s *Store) DimensionSamples(family model.PartFamily, column string) ([]float64, error) {
	if !dimensionColumns[column] {
		return nil, fmt.Errorf("unknown dimension column: %s", column)
	}

	// 列名来自白名单，可安全拼接
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s FROM programs
		WHERE family = ? AND %s IS NOT NULL
		  AND COALESCE(%s_src, '') != ?`, column, column, column),
		string(family), string(model.SourceEstimated))
	if err != nil {
		return nil, fmt.Errorf("query dimension samples failed: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan dimension sample failed: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func dimValue(d model.Dimension) interface{} {
	if !d.Resolved {
		return nil
	}
	return d.Value
}

func dimSource(d model.Dimension) interface{} {
	if !d.Resolved {
		return nil
	}
	return string(d.Source)
}

func scanProgram(rows *sql.Rows) (*ProgramRecord, error) {
	var rec ProgramRecord
	var od, th, cb, hd, hh, cbr, dd sql.NullFloat64
	var odS, thS, cbS, hdS, hhS, cbrS, ddS sql.NullString
	if err := rows.Scan(
		&rec.ID, &rec.Name, &rec.TitleRaw, &rec.Family, &rec.Status, &rec.ParsedAt,
		&od, &odS, &th, &thS, &cb, &cbS, &hd, &hdS, &hh, &hhS, &cbr, &cbrS, &dd, &ddS,
	); err != nil {
		return nil, fmt.Errorf("scan program failed: %w", err)
	}
	rec.OuterDiameter = nullablePtr(od)
	rec.Thickness = nullablePtr(th)
	rec.CenterBore = nullablePtr(cb)
	rec.HubDiameter = nullablePtr(hd)
	rec.HubHeight = nullablePtr(hh)
	rec.Counterbore = nullablePtr(cbr)
	rec.DrillDepth = nullablePtr(dd)
	rec.OuterDiameterSource = nullableStr(odS)
	rec.ThicknessSource = nullableStr(thS)
	rec.CenterBoreSource = nullableStr(cbS)
	rec.HubDiameterSource = nullableStr(hdS)
	rec.HubHeightSource = nullableStr(hhS)
	rec.CounterboreSource = nullableStr(cbrS)
	rec.DrillDepthSource = nullableStr(ddS)
	return &rec, nil
}

func nullablePtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
