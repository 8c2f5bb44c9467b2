package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFormattingCleanDocument 干净文档满分并给出肯定性反馈
func TestFormattingCleanDocument(t *testing.T) {
	score, feedback := checkFormatting(Document{"summary": "A plain overview of work history and goals"})
	assert.Equal(t, float64(10), score)
	assert.Equal(t, "No formatting issues detected - resume has clean, ATS-friendly formatting", feedback[0])
}

// TestFormattingStructureMarkers 表格和图片痕迹分别扣结构分
func TestFormattingStructureMarkers(t *testing.T) {
	score, feedback := checkFormatting(Document{
		"summary": "A plain overview of work history and goals",
		"layout":  "table with two columns; photo.jpg image header",
	})
	assert.Equal(t, float64(7), score)
	assert.Contains(t, feedback, "Possible table structures detected - these may not parse well in ATS systems")
	assert.Contains(t, feedback, "Possible image references detected - ATS systems cannot read images")
}

// TestFormattingHeadingCapitalization 区块标题大小写混用扣一致性分
func TestFormattingHeadingCapitalization(t *testing.T) {
	score, feedback := checkFormatting(Document{
		"experience": []any{},
		"Education":  []any{},
		"SKILLS":     []any{},
	})
	assert.Equal(t, float64(8), score)
	assert.Contains(t, feedback, "Inconsistent capitalization in section headings - use consistent capitalization")
}

// TestFormattingMixedDateFormats 三种日期格式并存时按检出顺序列出
func TestFormattingMixedDateFormats(t *testing.T) {
	score, feedback := checkFormatting(Document{
		"summary": "Employed from Jan 2020 until 03/04/2021 and again 2022-05 onward for a while",
	})
	assert.Equal(t, float64(9), score)
	assert.Contains(t, feedback, "DETAILED SCORING: Formatting Consistency: 2/3 points - Issues: Inconsistent date formats (YYYY-MM, Month YYYY, MM/DD/YYYY) (-1 point)")
}

// TestFormattingBulletStyles 超过两种项目符号变体扣一致性分
func TestFormattingBulletStyles(t *testing.T) {
	score, feedback := checkFormatting(Document{"summary": "• First - second * third"})
	assert.Equal(t, float64(9), score)
	assert.Contains(t, feedback, "DETAILED SCORING: Formatting Consistency: 2/3 points - Issues: Multiple bullet styles (4) (-1 point)")
}

// TestFormattingNonASCII 允许名单外的非ASCII字符扣字符分，排版类字符放行
func TestFormattingNonASCII(t *testing.T) {
	score, feedback := checkFormatting(Document{"summary": "Résumé naïve café"})
	assert.Equal(t, float64(9), score)
	assert.Contains(t, feedback, "Some non-standard Unicode characters detected - replace with standard characters")

	score, _ = checkFormatting(Document{"summary": "Led the team… shipped on time"})
	assert.Equal(t, float64(10), score, "省略号在允许名单内不应扣分")
}

// TestHeadingStyle 标题风格分类
func TestHeadingStyle(t *testing.T) {
	assert.Equal(t, "ALL CAPS", headingStyle("SKILLS"))
	assert.Equal(t, "ALL CAPS", headingStyle("R&D"), "无大小写属性的字符不影响判定")
	assert.Equal(t, "Title Case", headingStyle("Education"))
	assert.Equal(t, "lowercase", headingStyle("experience"))
	assert.Equal(t, "Mixed", headingStyle("workHistory"))
	assert.Equal(t, "Mixed", headingStyle("123"))
}
