package parser

import (
	"strconv"
	"strings"
	"unicode"
)

// Word 单个地址字，如 G01 / X4.886 / Z-1.55
type Word struct {
	Letter byte
	Value  float64
	Raw    string
}

// StripComment 拆分行内代码与注释
// 支持括号注释 (CENTER BORE) 与分号注释
func StripComment(line string) (code, comment string) {
	if i := strings.Index(line, ";"); i >= 0 {
		comment = strings.TrimSpace(line[i+1:])
		line = line[:i]
	}

	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			// 未闭合括号，整个剩余部分按注释处理
			c := strings.TrimSpace(line[start+1:])
			if comment == "" {
				comment = c
			}
			line = line[:start]
			break
		}
		c := strings.TrimSpace(line[start+1 : start+end])
		if comment == "" {
			comment = c
		}
		line = line[:start] + line[start+end+1:]
	}

	return strings.TrimSpace(line), comment
}

// ParseWords 解析代码段为地址字序列
// 无法解析的字被跳过，返回是否存在坏字
func ParseWords(code string) (words []Word, hadBad bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	i := 0
	for i < len(code) {
		ch := code[i]
		if ch == ' ' || ch == '\t' {
			i++
			continue
		}
		if ch == '%' || ch == '/' {
			// 程序界定符 / 跳段符，忽略本字符
			i++
			continue
		}
		if !unicode.IsLetter(rune(ch)) {
			// 游离字符（坏行片段），跳过
			hadBad = true
			i++
			continue
		}

		j := i + 1
		for j < len(code) {
			c := code[j]
			if c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
				j++
				continue
			}
			break
		}

		raw := code[i:j]
		numPart := raw[1:]
		if numPart == "" {
			// 裸字母（如孤立的 N），视为坏字
			hadBad = true
			i = j
			continue
		}

		value, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			hadBad = true
			i = j
			continue
		}

		words = append(words, Word{Letter: ch, Value: value, Raw: raw})
		i = j
	}
	return words, hadBad
}

// findWord 查找首个指定字母的字
func findWord(words []Word, letter byte) (Word, bool) {
	for _, w := range words {
		if w.Letter == letter {
			return w, true
		}
	}
	return Word{}, false
}

// hasGCode 判断字序列中是否含指定 G 值（容忍浮点表示）
func hasGCode(words []Word, value float64) bool {
	for _, w := range words {
		if w.Letter == 'G' && approxEqual(w.Value, value) {
			return true
		}
	}
	return false
}

func approxEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-6
}
