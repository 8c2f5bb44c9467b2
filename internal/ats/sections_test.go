package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSectionHeadersAllPresent 标准区块齐全时满分
func TestSectionHeadersAllPresent(t *testing.T) {
	score, feedback := checkSectionHeaders(Document{
		"summary":    "profile",
		"experience": []any{},
		"education":  []any{},
		"skills":     []any{},
	})
	assert.Equal(t, float64(15), score)
	assert.Equal(t, []string{"All essential section headers are present and properly organized"}, feedback)
}

// TestSectionHeadersCaseInsensitive 区块键匹配不区分大小写
func TestSectionHeadersCaseInsensitive(t *testing.T) {
	score, _ := checkSectionHeaders(Document{
		"Summary":    "profile",
		"Experience": []any{},
		"EDUCATION":  []any{},
		"Skills":     []any{},
	})
	assert.Equal(t, float64(15), score)
}

// TestSectionHeadersWorkAlias work/employment可替代experience
func TestSectionHeadersWorkAlias(t *testing.T) {
	score, feedback := checkSectionHeaders(Document{
		"work":      []any{},
		"education": []any{},
		"skills":    []any{},
		"basics":    map[string]any{"summary": "profile"},
	})
	assert.Equal(t, float64(15), score)
	assert.NotContains(t, feedback, "Missing work experience section - critical for ATS evaluation and job matching")
}

// TestSectionHeadersAllMissing 关键区块全缺时扣穿下限归零
func TestSectionHeadersAllMissing(t *testing.T) {
	score, feedback := checkSectionHeaders(Document{"hobbies": []any{}})
	assert.Equal(t, float64(0), score)
	assert.Len(t, feedback, 4)
}
