package model

import "strings"

// ProgramText 单个数控程序的源文本（创建后不可变）
type ProgramText struct {
	name  string
	lines []string
}

// NewProgramText 创建程序文本，行内容拷贝一份，调用方后续修改不影响本对象
func NewProgramText(name string, lines []string) *ProgramText {
	copied := make([]string, len(lines))
	copy(copied, lines)
	return &ProgramText{
		name:  name,
		lines: copied,
	}
}

// NewProgramFromString 从整段文本创建程序（按行拆分，兼容 \r\n）
func NewProgramFromString(name, text string) *ProgramText {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return NewProgramText(name, strings.Split(text, "\n"))
}

// Name 程序名（通常为文件名）
func (p *ProgramText) Name() string {
	return p.name
}

// Len 总行数
func (p *ProgramText) Len() int {
	return len(p.lines)
}

// Line 获取指定行（越界返回空串）
func (p *ProgramText) Line(i int) string {
	if i < 0 || i >= len(p.lines) {
		return ""
	}
	return p.lines[i]
}

// Lines 全部源行（只读，调用方不得修改）
func (p *ProgramText) Lines() []string {
	return p.lines
}

// IsEmpty 判断程序是否为空（无行或全部为空白行）
func (p *ProgramText) IsEmpty() bool {
	for _, line := range p.lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

// TitleLine 返回程序标题行（第一条括号注释行）
// 数控程序约定首个注释即零件描述，如 (5.0 X 1.25 6X5.5 CB 78.1 HUB)
func (p *ProgramText) TitleLine() string {
	for _, line := range p.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		// 跳过程序号行 O1234 / %
		if trimmed == "%" {
			continue
		}
		if start := strings.Index(trimmed, "("); start >= 0 {
			end := strings.Index(trimmed[start:], ")")
			if end > 0 {
				return strings.TrimSpace(trimmed[start+1 : start+end])
			}
			return strings.TrimSpace(trimmed[start+1:])
		}
	}
	return ""
}
