package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContentQualityPerfectSample 完整样本不应有任何扣分项，肯定性反馈置于首位
func TestContentQualityPerfectSample(t *testing.T) {
	score, feedback := checkContentQuality(sampleResume())
	assert.Equal(t, float64(25), score)
	require.NotEmpty(t, feedback)
	assert.Equal(t, "Content quality and length are excellent - good detail level and appropriate sections", feedback[0])
}

// TestContentQualityBriefSummary 摘要不足50字符只得2/5
func TestContentQualityBriefSummary(t *testing.T) {
	score, feedback := checkContentQuality(Document{"summary": "Short profile"})
	assert.Equal(t, float64(2), score)
	assert.Contains(t, feedback, "Summary is too short (under 50 characters) - expand to highlight key qualifications")
	assert.Contains(t, feedback, "DETAILED SCORING: Summary: 2/5 points - Summary is too brief (13 characters)")
}

// TestContentQualityFractionalDateDeduction 单条经历缺日期扣0.25分，反馈保留小数
func TestContentQualityFractionalDateDeduction(t *testing.T) {
	score, feedback := checkContentQuality(Document{
		"experience": []any{
			map[string]any{
				"position":   "Engineer",
				"company":    "Acme",
				"highlights": []any{"Delivered measurable gains which increased throughput"},
			},
		},
	})
	assert.Equal(t, 7.75, score)
	assert.Contains(t, feedback, "Missing dates in 1 work experience entries - dates are essential for chronological evaluation")
	assert.Contains(t, feedback, "DETAILED SCORING: Experience: 7.75/8 points - Issues: Missing dates in 1 entries (-0.25 points)")
}

// TestContentQualityMissingTitlesDisplay 未达上限的整值扣分按小数形态展示
func TestContentQualityMissingTitlesDisplay(t *testing.T) {
	job := func(company string) map[string]any {
		return map[string]any{
			"company":    company,
			"startDate":  "2020-01",
			"endDate":    "2021-01",
			"highlights": []any{"Delivered measurable gains which increased throughput"},
		}
	}
	score, feedback := checkContentQuality(Document{
		"experience": []any{job("Acme"), job("Globex")},
	})
	assert.Equal(t, float64(7), score)
	assert.Contains(t, feedback, "DETAILED SCORING: Experience: 7.0/8 points - Issues: Missing titles/companies (-1.0 points)")
}

// TestContentQualitySkillsLadder 技能过少、无分类、无类型多样性时技能项归零
func TestContentQualitySkillsLadder(t *testing.T) {
	score, feedback := checkContentQuality(Document{"skills": []any{"Go", "Rust", "Zig"}})
	assert.Equal(t, float64(0), score)
	assert.Contains(t, feedback, "DETAILED SCORING: Skills: 0/5 points - Issues: Too few skills (3) (-2 points), No skill categorization (-1 point), No skill variety (-2 points)")
}

// TestContentQualityEducationDetails 教育条目缺少补充信息扣1分
func TestContentQualityEducationDetails(t *testing.T) {
	_, feedback := checkContentQuality(Document{
		"education": []any{
			map[string]any{
				"institution": "State University",
				"area":        "Mathematics",
				"startDate":   "2015-09",
				"endDate":     "2019-06",
			},
		},
	})
	assert.Contains(t, feedback, "Education entries lack additional details like GPA, courses, or achievements")
	assert.Contains(t, feedback, "DETAILED SCORING: Education: 3/4 points - Issues: No additional education details (-1 point)")
}

// TestContentQualityMalformedExperience 经历区块不是数组时按缺失计分而不报错
func TestContentQualityMalformedExperience(t *testing.T) {
	score, feedback := checkContentQuality(Document{"experience": "ten years of work"})
	assert.Equal(t, float64(0), score)
	assert.Contains(t, feedback, "No work experience entries found - this is critical content for ATS evaluation")
}
