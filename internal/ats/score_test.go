package ats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleResume 一份结构完整、日期规范的简历样本
func sampleResume() Document {
	return Document{
		"basics": map[string]any{
			"name":     "Jordan Avery",
			"email":    "jordan.avery@example.com",
			"phone":    "555-010-7788",
			"location": "Austin, TX",
			"linkedin": "linkedin.com/in/jordan-avery",
			"summary": "Experienced software engineer with strong expertise in JavaScript, React, and Node. " +
				"Skilled in building scalable web applications and REST APIs, with a proven background in agile product teams.",
		},
		"experience": []any{
			map[string]any{
				"position":  "Senior Software Engineer",
				"company":   "Brightline Labs",
				"startDate": "2021-03",
				"endDate":   "Present",
				"highlights": []any{
					"Led a squad of six engineers and delivered a customer portal in React for enterprise clients",
					"Introduced automated testing in JavaScript and Docker which reduced regression defects by 35%",
					"Coordinated quarterly planning with stakeholders and organized cross-team knowledge sharing sessions",
				},
			},
			map[string]any{
				"position":  "Software Engineer",
				"company":   "Harborview Systems",
				"startDate": "2018-06",
				"endDate":   "2021-02",
				"highlights": []any{
					"Built REST services in Node.js with PostgreSQL and improved median latency by 40%",
					"Partnered with design to ship dashboards which increased user retention across three product lines",
					"Mentored two junior developers and coordinated release processes across distributed teams",
				},
			},
		},
		"education": []any{
			map[string]any{
				"institution": "University of Texas at Austin",
				"area":        "Computer Science",
				"studyType":   "Bachelor of Science",
				"startDate":   "2014-09",
				"endDate":     "2018-05",
				"gpa":         "3.8",
			},
		},
		"skills": []any{
			map[string]any{"name": "JavaScript", "category": "Programming Languages", "level": "advanced"},
			map[string]any{"name": "TypeScript", "category": "Programming Languages", "level": "intermediate"},
			map[string]any{"name": "React", "category": "Frameworks", "level": "advanced"},
			map[string]any{"name": "Node.js", "category": "Frameworks", "level": "advanced"},
			map[string]any{"name": "REST APIs", "category": "Software Architecture", "level": "advanced"},
			map[string]any{"name": "PostgreSQL", "category": "Databases", "level": "intermediate"},
			map[string]any{"name": "Docker", "category": "Tooling", "level": "intermediate"},
			map[string]any{"name": "Leadership", "category": "Soft Skills", "level": "advanced"},
			map[string]any{"name": "Communication", "category": "Soft Skills", "level": "advanced"},
		},
		"projects": []any{
			map[string]any{
				"name":        "Open Source Dashboard",
				"description": "Maintainer of a community dashboard for tracking engineering metrics, built with React and Node",
				"url":         "github.com/jordan-avery/dashboard",
			},
		},
		"certifications": []any{
			map[string]any{"name": "AWS Certified Developer", "issuer": "Amazon Web Services", "date": "2022-08"},
		},
	}
}

const sampleJobDescription = "We are looking for a software engineer with strong experience in JavaScript, React, and Node.js. " +
	"The role requires solid knowledge of REST APIs, PostgreSQL, and Docker. " +
	"Experience with TypeScript and agile teams is a plus. " +
	"Strong communication skills and leadership ability are expected. " +
	"You will build web applications with React and Node.js, write JavaScript every day, and ship features with your team."

// TestScoreEmptyDocument 空文档应得到各维度接近0分的"Poor"档位报告
func TestScoreEmptyDocument(t *testing.T) {
	report, err := Score(Document{}, "")
	require.NoError(t, err)
	require.NotNil(t, report)

	// 联系方式：缺姓名-3、邮箱-2、电话-2、地址-1、领英-1
	assert.Equal(t, 1, report.Sections[SectionContactInfo].Score)
	assert.Equal(t, 10, report.Sections[SectionContactInfo].MaxScore)

	// 区块：-7-4-4-2，下限归零
	assert.Equal(t, 0, report.Sections[SectionSectionHeaders].Score)

	// 内容：全部子维度为0，无职位描述时补10分
	assert.Equal(t, 10, report.Sections[SectionContentQuality].Score)
	assert.Equal(t, 35, report.Sections[SectionContentQuality].MaxScore)

	// "{}"没有任何格式问题
	assert.Equal(t, 10, report.Sections[SectionFormatting].Score)

	// 语言质量只有"动作动词不足"一项扣分
	assert.Equal(t, 9, report.Sections[SectionLanguageQuality].Score)

	// 无职位描述时不应有关键词维度
	_, hasKeywordSection := report.Sections[SectionKeywordMatching]
	assert.False(t, hasKeywordSection, "无职位描述时不应有keyword_matching维度")

	assert.Equal(t, 30, report.OverallScore)
	assert.Equal(t, 100, report.MaxScore)
	assert.Equal(t, "Poor ATS compatibility - significant improvements needed", report.Assessment)
}

// TestScoreEmptyDocumentImprovementAreas 改进项按完成度升序且不超过3个
func TestScoreEmptyDocumentImprovementAreas(t *testing.T) {
	report, err := Score(Document{}, "")
	require.NoError(t, err)

	require.Len(t, report.ImprovementAreas, 3)
	assert.Equal(t, SectionSectionHeaders, report.ImprovementAreas[0].Area)
	assert.Equal(t, 0, report.ImprovementAreas[0].Percentage)
	assert.Equal(t, SectionContactInfo, report.ImprovementAreas[1].Area)
	assert.Equal(t, 10, report.ImprovementAreas[1].Percentage)
	assert.Equal(t, SectionContentQuality, report.ImprovementAreas[2].Area)
	assert.Equal(t, 29, report.ImprovementAreas[2].Percentage)
}

// TestScoreFullSampleAgainstJob 完整样本对照职位描述应达到Excellent档位
func TestScoreFullSampleAgainstJob(t *testing.T) {
	report, err := Score(sampleResume(), sampleJobDescription)
	require.NoError(t, err)

	assert.Equal(t, 10, report.Sections[SectionContactInfo].Score)
	assert.Equal(t, 15, report.Sections[SectionSectionHeaders].Score)
	assert.Equal(t, 25, report.Sections[SectionContentQuality].Score)
	assert.Equal(t, 25, report.Sections[SectionContentQuality].MaxScore)
	assert.Equal(t, 10, report.Sections[SectionLanguageQuality].Score)

	// JSON文本里引号等特殊字符必然超过30个，字符使用项扣满3分
	assert.Equal(t, 7, report.Sections[SectionFormatting].Score)

	keyword := report.Sections[SectionKeywordMatching]
	assert.Equal(t, 30, keyword.MaxScore)
	assert.Greater(t, keyword.Score, 20, "关键词匹配得分应超过20/30")

	// 10+15+25+23+7+10，累计分恰好踩在90的档位边界上
	assert.Equal(t, 90, report.OverallScore)
	assert.Equal(t, "Excellent ATS compatibility", report.Assessment)

	// 各维度都达标，不应有改进项
	assert.Empty(t, report.ImprovementAreas)
}

// TestScoreSectionBounds 任意文档下各维度得分都应落在[0, max]内
func TestScoreSectionBounds(t *testing.T) {
	docs := []Document{
		{},
		sampleResume(),
		{"experience": "not a list", "skills": 42, "education": map[string]any{"x": 1}},
		{"basics": "oops", "summary": []any{1, 2, 3}},
	}
	for _, doc := range docs {
		for _, jd := range []string{"", sampleJobDescription} {
			report, err := Score(doc, jd)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, report.OverallScore, 0)
			assert.LessOrEqual(t, report.OverallScore, 100)
			for name, section := range report.Sections {
				assert.GreaterOrEqual(t, section.Score, 0, "维度 %s 得分不应为负", name)
				assert.LessOrEqual(t, section.Score, section.MaxScore, "维度 %s 得分不应超过上限", name)
			}
		}
	}
}

// TestScorePurity 相同输入必须产出字节一致的报告，且不得修改输入文档
func TestScorePurity(t *testing.T) {
	doc := sampleResume()
	before, err := json.Marshal(map[string]any(doc))
	require.NoError(t, err)

	first, err := Score(doc, sampleJobDescription)
	require.NoError(t, err)
	second, err := Score(doc, sampleJobDescription)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON), "两次评分的报告应字节一致")

	after, err := json.Marshal(map[string]any(doc))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "评分不应修改输入文档")
}

// TestScoreWithoutJobDescription 省略职位描述时的分数重分配
func TestScoreWithoutJobDescription(t *testing.T) {
	withJD, err := Score(sampleResume(), sampleJobDescription)
	require.NoError(t, err)
	withoutJD, err := Score(sampleResume(), "")
	require.NoError(t, err)

	_, ok := withoutJD.Sections[SectionKeywordMatching]
	assert.False(t, ok)
	assert.Equal(t, 35, withoutJD.Sections[SectionContentQuality].MaxScore)
	assert.Equal(t, withJD.Sections[SectionContentQuality].Score+10, withoutJD.Sections[SectionContentQuality].Score)

	require.NotEmpty(t, withoutJD.Recommendations)
	assert.Equal(t, "high", withoutJD.Recommendations[0].Priority)
	assert.Equal(t, "For better ATS compatibility, provide a job description to check for keyword matching.", withoutJD.Recommendations[0].Message)
}

// TestScoreNilDocument nil文档是唯一的快速失败路径
func TestScoreNilDocument(t *testing.T) {
	report, err := Score(nil, "")
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNotAnObject)
}

// TestScoreReportSerializable 报告应始终可序列化，空集合输出为[]而不是null
func TestScoreReportSerializable(t *testing.T) {
	report, err := Score(sampleResume(), sampleJobDescription)
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recommendations":[]`)
	assert.Contains(t, string(data), `"improvement_areas":[]`)
}
