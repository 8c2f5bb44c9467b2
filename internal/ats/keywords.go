package ats

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// extractJobKeywords 从职位描述里提取关键词
// 频率最高的20个词（同频按首次出现顺序），再补充技能引导词后面的词，总量不超过25
func extractJobKeywords(jobWords []string) []string {
	counts := map[string]int{}
	var order []string
	for _, w := range jobWords {
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}

	var candidates []string
	for _, w := range order {
		if _, stop := stopWords[w]; stop || len(w) <= 2 {
			continue
		}
		candidates = append(candidates, w)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return counts[candidates[i]] > counts[candidates[j]]
	})

	top := make([]string, 0, 25)
	top = append(top, candidates[:min(20, len(candidates))]...)

	// 技能引导词扫描走完整的分词流，停用词此处不过滤
	for i := 1; i < len(jobWords); i++ {
		if _, ok := skillIndicators[jobWords[i-1]]; !ok {
			continue
		}
		if !containsString(top, jobWords[i]) && len(top) < 25 {
			top = append(top, jobWords[i])
		}
	}
	return top
}

// checkKeywordMatching 职位关键词匹配检查（满分30）
// 基础匹配15分、区块分布10分、密度与语境5分
func checkKeywordMatching(doc Document, jobDescription string) (float64, []string) {
	if jobDescription == "" {
		return 30, []string{"No job description provided for keyword matching"}
	}

	feedback := []string{}
	detailed := []string{}
	current := 0

	jobWords := jobTokenPattern.FindAllString(strings.ToLower(jobDescription), -1)
	topKeywords := extractJobKeywords(jobWords)

	resumeText := strings.ToLower(doc.Text())

	var matched, missing []string
	for _, kw := range topKeywords {
		if strings.Contains(resumeText, kw) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	matchRatio := ratio(len(matched), len(topKeywords))

	// 基础匹配（15分）
	basicScore := int(matchRatio * 15)
	current += basicScore
	detailed = append(detailed, fmt.Sprintf("Basic Keyword Matching: %d/15 points - %d%% of job keywords found", basicScore, int(matchRatio*100)))

	// 区块分布（10分）：摘要3分、经历4分、技能3分
	placementScore := 0
	var placementIssues []string

	summary := strings.ToLower(resumeSummary(doc))
	summaryMatches := 0
	if summary != "" {
		for _, kw := range topKeywords {
			if strings.Contains(summary, kw) {
				summaryMatches++
			}
		}
	}
	summaryScore := min(3, int(ratio(summaryMatches, len(topKeywords))*6))
	placementScore += summaryScore
	if summaryScore < 2 {
		placementIssues = append(placementIssues, fmt.Sprintf("Few keywords in summary (-%d points)", 3-summaryScore))
		feedback = append(feedback, "Add more job-specific keywords to your professional summary")
	}

	expRaw := experienceValue(doc)
	experienceMatches := 0
	if truthy(expRaw) {
		expText := strings.ToLower(jsonText(expRaw))
		for _, kw := range topKeywords {
			if strings.Contains(expText, kw) {
				experienceMatches++
			}
		}
	}
	experienceScore := min(4, int(ratio(experienceMatches, len(topKeywords))*8))
	placementScore += experienceScore
	if experienceScore < 3 {
		placementIssues = append(placementIssues, fmt.Sprintf("Few keywords in experience section (-%d points)", 4-experienceScore))
		feedback = append(feedback, "Incorporate more job-specific keywords in your work experience descriptions")
	}

	skillsRaw := doc["skills"]
	skillsMatches := 0
	if truthy(skillsRaw) {
		skillsText := strings.ToLower(jsonText(skillsRaw))
		for _, kw := range topKeywords {
			if strings.Contains(skillsText, kw) {
				skillsMatches++
			}
		}
	}
	skillsScore := min(3, int(ratio(skillsMatches, len(topKeywords))*6))
	placementScore += skillsScore
	if skillsScore < 2 {
		placementIssues = append(placementIssues, fmt.Sprintf("Few keywords in skills section (-%d points)", 3-skillsScore))
		feedback = append(feedback, "Add more job-specific skills to your skills section")
	}

	current += placementScore
	if len(placementIssues) > 0 {
		detailed = append(detailed, fmt.Sprintf("Keyword Placement: %d/10 points - Issues: %s", placementScore, strings.Join(placementIssues, ", ")))
	} else {
		detailed = append(detailed, fmt.Sprintf("Keyword Placement: %d/10 points - Good keyword distribution across sections", placementScore))
	}

	// 密度与语境（5分）
	densityScore := 0
	var densityIssues []string

	resumeWordCount := len(wordPattern.FindAllString(resumeText, -1))
	keywordInstances := 0
	for _, kw := range matched {
		keywordInstances += countWordOccurrences(resumeText, kw)
	}
	density := 0.0
	if resumeWordCount > 0 {
		density = float64(keywordInstances) / float64(resumeWordCount)
	}

	// 理想密度在3%-5%之间
	switch {
	case density >= 0.03 && density <= 0.05:
		densityScore += 3
	case (density >= 0.02 && density < 0.03) || (density > 0.05 && density <= 0.07):
		densityScore += 2
		densityIssues = append(densityIssues, "Keyword density slightly off optimal range")
		if density < 0.03 {
			feedback = append(feedback, "Keyword density is slightly low - incorporate more relevant terms")
		} else {
			feedback = append(feedback, "Keyword density is slightly high - ensure natural integration of keywords")
		}
	default:
		densityScore += 1
		densityIssues = append(densityIssues, "Keyword density far from optimal range")
		if density < 0.02 {
			feedback = append(feedback, "Keyword density is too low - significantly increase relevant terms")
		} else {
			feedback = append(feedback, "Keyword density is too high - may appear as keyword stuffing to ATS")
		}
	}

	// 语境自然度：抽查前5个命中词各前2处出现的句子样片段，
	// 所有片段都不足5个词才判定为生硬堆砌
	if naturalKeywordContext(resumeText, matched) {
		densityScore += 2
	} else {
		densityScore += 1
		densityIssues = append(densityIssues, "Keywords may not be used in natural context")
		feedback = append(feedback, "Ensure keywords are used naturally in complete sentences, not just listed")
	}

	current += densityScore
	if len(densityIssues) > 0 {
		detailed = append(detailed, fmt.Sprintf("Keyword Density & Context: %d/5 points - Issues: %s", densityScore, strings.Join(densityIssues, ", ")))
	} else {
		detailed = append(detailed, fmt.Sprintf("Keyword Density & Context: %d/5 points - Optimal keyword usage", densityScore))
	}

	// 总体匹配档位放在反馈最前
	var tier string
	switch {
	case matchRatio >= 0.8:
		tier = "Excellent keyword matching with job description (over 80% match)"
	case matchRatio >= 0.6:
		tier = "Good keyword matching (60-80% match), but some important terms are missing"
	case matchRatio >= 0.4:
		tier = "Fair keyword matching (40-60% match) - resume needs better alignment with job requirements"
	default:
		tier = "Poor keyword matching (under 40% match) - resume needs significant tailoring to the job description"
	}
	feedback = append([]string{tier}, feedback...)

	if len(missing) > 0 {
		critical := missing[:min(5, len(missing))]
		feedback = append(feedback, fmt.Sprintf("Consider adding these important keywords: %s", strings.Join(critical, ", ")))
		feedback = append(feedback, "These keywords should be incorporated naturally in your summary, experience, and skills sections")
	}
	if len(matched) > 0 {
		feedback = append(feedback, fmt.Sprintf("Good use of these relevant keywords: %s", strings.Join(matched[:min(5, len(matched))], ", ")))
	}

	for _, item := range detailed {
		feedback = append(feedback, "DETAILED SCORING: "+item)
	}

	return float64(current), feedback
}

// countWordOccurrences 整词边界下的出现次数
func countWordOccurrences(text, word string) int {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return 0
	}
	return len(re.FindAllString(text, -1))
}

// naturalKeywordContext 判断关键词是否出现在自然语句中
// 没有可抽查的片段时不做惩罚
func naturalKeywordContext(resumeText string, matched []string) bool {
	inspected := 0
	longSpan := false
	for _, kw := range matched[:min(5, len(matched))] {
		re, err := regexp.Compile(`[^.!?]*\b` + regexp.QuoteMeta(kw) + `\b[^.!?]*`)
		if err != nil {
			continue
		}
		spans := re.FindAllString(resumeText, -1)
		for _, span := range spans[:min(2, len(spans))] {
			inspected++
			if len(strings.Fields(strings.TrimSpace(span))) >= 5 {
				longSpan = true
			}
		}
	}
	return inspected == 0 || longSpan
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
