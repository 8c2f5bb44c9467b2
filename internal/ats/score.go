package ats

import (
	"math"
	"sort"

	"ats-score-go/internal/logger"
)

// sectionOrder 各检查器的固定执行顺序，改进项扫描也按此序，保证报告可复现
var sectionOrder = []string{
	SectionContactInfo,
	SectionSectionHeaders,
	SectionContentQuality,
	SectionKeywordMatching,
	SectionFormatting,
	SectionLanguageQuality,
}

// Score 对简历文档做ATS兼容性评分
// 纯函数：不修改输入文档，相同输入必得到相同报告
// jobDescription为空时省略关键词匹配维度，其30分额度中的10分并入内容质量维度
// （内容质量满分变为35），并追加一条高优先级建议
// 各维度内部以小数累计扣分，落入报告时向零截断为整数
func Score(doc Document, jobDescription string) (*ScoreReport, error) {
	if doc == nil {
		return nil, ErrNotAnObject
	}

	logger.Debug().Msg("开始ATS兼容性检查")

	report := &ScoreReport{
		MaxScore:         100,
		Sections:         make(map[string]SectionResult, len(sectionOrder)),
		Recommendations:  []Recommendation{},
		ImprovementAreas: []ImprovementArea{},
	}

	contactScore, contactFeedback := checkContactInfo(doc)
	report.Sections[SectionContactInfo] = SectionResult{Score: int(contactScore), MaxScore: 10, Feedback: contactFeedback}

	headerScore, headerFeedback := checkSectionHeaders(doc)
	report.Sections[SectionSectionHeaders] = SectionResult{Score: int(headerScore), MaxScore: 15, Feedback: headerFeedback}

	contentScore, contentFeedback := checkContentQuality(doc)
	contentMax := 25

	if jobDescription != "" {
		keywordScore, keywordFeedback := checkKeywordMatching(doc, jobDescription)
		report.Sections[SectionKeywordMatching] = SectionResult{Score: int(keywordScore), MaxScore: 30, Feedback: keywordFeedback}
	} else {
		contentScore += 10
		contentMax = 35
		report.Recommendations = append(report.Recommendations, Recommendation{
			Priority: "high",
			Message:  "For better ATS compatibility, provide a job description to check for keyword matching.",
		})
	}
	report.Sections[SectionContentQuality] = SectionResult{Score: int(contentScore), MaxScore: contentMax, Feedback: contentFeedback}

	formatScore, formatFeedback := checkFormatting(doc)
	report.Sections[SectionFormatting] = SectionResult{Score: int(formatScore), MaxScore: 10, Feedback: formatFeedback}

	languageScore, languageFeedback := checkLanguageQuality(doc)
	report.Sections[SectionLanguageQuality] = SectionResult{Score: int(languageScore), MaxScore: 10, Feedback: languageFeedback}

	total := 0
	for _, res := range report.Sections {
		total += res.Score
	}
	report.OverallScore = min(100, total)

	// 改进项：低于维度满分70%的维度，按完成度升序取前3个
	var areas []ImprovementArea
	for _, name := range sectionOrder {
		res, ok := report.Sections[name]
		if !ok {
			continue
		}
		if float64(res.Score) < float64(res.MaxScore)*0.7 {
			areas = append(areas, ImprovementArea{
				Area:            name,
				CurrentScore:    res.Score,
				MaxScore:        res.MaxScore,
				Percentage:      int(math.Round(float64(res.Score) / float64(res.MaxScore) * 100)),
				Recommendations: res.Feedback,
			})
		}
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Percentage < areas[j].Percentage
	})
	if len(areas) > 3 {
		areas = areas[:3]
	}
	report.ImprovementAreas = append(report.ImprovementAreas, areas...)

	// 档位以未封顶的累计分判定
	switch {
	case total >= 90:
		report.Assessment = "Excellent ATS compatibility"
		report.AssessmentDetails = "Your resume is highly optimized for ATS systems. It contains all necessary sections, good keyword matching, and proper formatting."
	case total >= 75:
		report.Assessment = "Good ATS compatibility"
		report.AssessmentDetails = "Your resume is well-structured for ATS systems but has some areas for improvement. Focus on the recommended improvements to increase your chances of passing ATS scans."
	case total >= 60:
		report.Assessment = "Fair ATS compatibility - improvements needed"
		report.AssessmentDetails = "Your resume needs several improvements to be fully ATS-compatible. Pay close attention to the recommended changes to significantly improve your chances with ATS systems."
	default:
		report.Assessment = "Poor ATS compatibility - significant improvements needed"
		report.AssessmentDetails = "Your resume requires major improvements to pass ATS scans. Consider addressing all the recommended changes to make your resume ATS-friendly."
	}

	logger.Debug().Int("total_score", total).Msg("ATS兼容性检查完成")
	return report, nil
}
