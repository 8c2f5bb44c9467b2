package ats

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// points 扣分值及其展示形态
// 达到上限的扣分按整数展示("2")，未达上限的小数扣分保留小数位("0.5"、"1.0")，
// 与产品既有的反馈文案口径保持一致
type points struct {
	v     float64
	whole bool
}

// capAt 扣分上限 min(limit, v)
func capAt(limit int, v float64) points {
	if float64(limit) <= v {
		return points{v: float64(limit), whole: true}
	}
	return points{v: v}
}

func intPoints(n int) points {
	return points{v: float64(n), whole: true}
}

func (p points) String() string {
	if p.whole {
		return strconv.Itoa(int(p.v))
	}
	s := strconv.FormatFloat(p.v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// subScore 子维度分数累加器，扣过小数分后展示形态也变为小数
type subScore struct {
	points
}

func newSubScore(maxPts int) subScore {
	return subScore{points{v: float64(maxPts), whole: true}}
}

func (s *subScore) deduct(p points) {
	s.v -= p.v
	if !p.whole {
		s.whole = false
	}
}

// floorZero 下限为0，归零后展示形态恢复为整数
func (s *subScore) floorZero() {
	if s.v <= 0 {
		s.v = 0
		s.whole = true
	}
}

// experienceValue 经历区块取值：experience键优先，仅当键不存在时回退work键
func experienceValue(doc Document) any {
	if v, ok := doc["experience"]; ok {
		return v
	}
	return doc["work"]
}

// resumeSummary 摘要取值：顶层summary键优先（即使为空），否则取basics.summary
func resumeSummary(doc Document) string {
	if doc.Has("summary") {
		return doc.Str("summary")
	}
	if v := doc.Map("basics")["summary"]; truthy(v) {
		return asString(v)
	}
	return ""
}

// checkContentQuality 内容质量检查（满分25）
// 摘要5分、经历8分、教育4分、技能5分、结构与篇幅3分，各子维度独立封顶和保底
func checkContentQuality(doc Document) (float64, []string) {
	current := 25.0
	feedback := []string{}
	detailed := []string{}

	// 摘要（5分）
	summary := resumeSummary(doc)
	sumLen := utf8.RuneCountInString(summary)
	switch {
	case summary == "":
		current -= 5
		feedback = append(feedback, "Missing professional summary - include a concise overview of your qualifications")
		detailed = append(detailed, "Summary: 0/5 points - No summary found")
	case sumLen < 50:
		current -= 3
		feedback = append(feedback, "Summary is too short (under 50 characters) - expand to highlight key qualifications")
		detailed = append(detailed, fmt.Sprintf("Summary: 2/5 points - Summary is too brief (%d characters)", sumLen))
	case sumLen > 500:
		current -= 2
		feedback = append(feedback, "Summary is too long (over 500 characters) - condense to be more impactful")
		detailed = append(detailed, fmt.Sprintf("Summary: 3/5 points - Summary is too long (%d characters)", sumLen))
	default:
		lower := strings.ToLower(summary)
		keywordCount := 0
		for _, kw := range summaryKeywords {
			if strings.Contains(lower, kw) {
				keywordCount++
			}
		}
		if keywordCount >= 3 {
			detailed = append(detailed, "Summary: 5/5 points - Excellent summary with strong keywords")
		} else {
			current -= 1
			detailed = append(detailed, "Summary: 4/5 points - Good summary but could use more industry keywords")
			feedback = append(feedback, "Summary could be strengthened with more industry-relevant keywords")
		}
	}

	// 经历（8分）
	expList := asList(experienceValue(doc))
	if len(expList) == 0 {
		current -= 8
		feedback = append(feedback, "No work experience entries found - this is critical content for ATS evaluation")
		detailed = append(detailed, "Experience: 0/8 points - No experience entries found")
	} else {
		exp := newSubScore(8)
		var expIssues []string
		jobs := entryDocs(expList)

		// 起止日期（1分）
		missingDates := 0
		for _, job := range jobs {
			if !truthy(job["startDate"]) || !truthy(job["endDate"]) {
				missingDates++
			}
		}
		if missingDates > 0 {
			d := capAt(1, float64(missingDates)*0.25)
			exp.deduct(d)
			feedback = append(feedback, fmt.Sprintf("Missing dates in %d work experience entries - dates are essential for chronological evaluation", missingDates))
			expIssues = append(expIssues, fmt.Sprintf("Missing dates in %d entries (-%s points)", missingDates, d))
		}

		// 职位与公司（2分）
		missingTitles := 0.0
		for _, job := range jobs {
			if !truthy(job["position"]) && !truthy(job["title"]) {
				missingTitles += 0.5
			}
			if !truthy(job["company"]) && !truthy(job["organization"]) {
				missingTitles += 0.5
			}
		}
		if missingTitles > 0 {
			d := capAt(2, missingTitles)
			exp.deduct(d)
			feedback = append(feedback, "Missing job titles or company names in experience entries - these are key ATS matching points")
			expIssues = append(expIssues, fmt.Sprintf("Missing titles/companies (-%s points)", d))
		}

		// 描述及篇幅（3分）
		missingDescs := 0
		shortDescs := 0
		for _, job := range jobs {
			desc := asString(job["description"])
			highlights := asList(job["highlights"])
			if desc == "" && len(highlights) == 0 {
				missingDescs++
			} else if desc != "" && utf8.RuneCountInString(desc) < 100 && len(highlights) == 0 {
				shortDescs++
			}
		}
		if missingDescs > 0 {
			d := capAt(2, float64(missingDescs)*0.5)
			exp.deduct(d)
			feedback = append(feedback, fmt.Sprintf("Missing descriptions in %d work experience entries - include detailed responsibilities and achievements", missingDescs))
			expIssues = append(expIssues, fmt.Sprintf("Missing descriptions in %d entries (-%s points)", missingDescs, d))
		}
		if shortDescs > 0 {
			d := capAt(1, float64(shortDescs)*0.25)
			exp.deduct(d)
			feedback = append(feedback, fmt.Sprintf("%d work experience entries have very brief descriptions - expand with specific accomplishments", shortDescs))
			expIssues = append(expIssues, fmt.Sprintf("Brief descriptions in %d entries (-%s points)", shortDescs, d))
		}

		// 动作动词与量化成果（2分）
		weakDescs := 0
		missingAchievements := 0
		for _, job := range jobs {
			desc := strings.ToLower(asString(job["description"]))
			var highlights []string
			for _, h := range asList(job["highlights"]) {
				highlights = append(highlights, strings.ToLower(asString(h)))
			}
			hasContent := desc != "" || len(highlights) > 0
			if !matchesAnyPhrase(desc, highlights, actionVerbs) && hasContent {
				weakDescs++
			}
			if !matchesAnyPhrase(desc, highlights, achievementIndicators) && hasContent {
				missingAchievements++
			}
		}
		if weakDescs > 0 {
			d := capAt(1, float64(weakDescs)*0.25)
			exp.deduct(d)
			feedback = append(feedback, fmt.Sprintf("%d work descriptions lack strong action verbs - use achievement-oriented language", weakDescs))
			expIssues = append(expIssues, fmt.Sprintf("Weak action verbs in %d entries (-%s points)", weakDescs, d))
		}
		if missingAchievements > 0 {
			d := capAt(1, float64(missingAchievements)*0.25)
			exp.deduct(d)
			feedback = append(feedback, fmt.Sprintf("%d work descriptions lack measurable achievements - include specific results and metrics", missingAchievements))
			expIssues = append(expIssues, fmt.Sprintf("Missing achievements in %d entries (-%s points)", missingAchievements, d))
		}

		exp.floorZero()
		current = current - 8 + exp.v
		if len(expIssues) > 0 {
			detailed = append(detailed, fmt.Sprintf("Experience: %s/8 points - Issues: %s", exp.String(), strings.Join(expIssues, ", ")))
		} else {
			detailed = append(detailed, "Experience: 8/8 points - Excellent experience section")
		}
	}

	// 教育（4分）
	eduList := asList(doc["education"])
	if len(eduList) == 0 {
		current -= 4
		feedback = append(feedback, "No education entries found - include your educational background")
		detailed = append(detailed, "Education: 0/4 points - No education entries found")
	} else {
		edu := newSubScore(4)
		var eduIssues []string
		entries := entryDocs(eduList)

		missingInfo := 0.0
		for _, e := range entries {
			if !truthy(e["institution"]) {
				missingInfo += 0.5
			}
			if !truthy(e["area"]) && !truthy(e["studyType"]) {
				missingInfo += 0.5
			}
		}
		if missingInfo > 0 {
			d := capAt(2, missingInfo)
			edu.deduct(d)
			feedback = append(feedback, "Incomplete information in education entries - include institution and field of study")
			eduIssues = append(eduIssues, fmt.Sprintf("Missing institution/degree info (-%s points)", d))
		}

		missingDates := 0
		for _, e := range entries {
			if !truthy(e["startDate"]) || !truthy(e["endDate"]) {
				missingDates++
			}
		}
		if missingDates > 0 {
			d := capAt(1, float64(missingDates)*0.25)
			edu.deduct(d)
			feedback = append(feedback, fmt.Sprintf("Missing dates in %d education entries", missingDates))
			eduIssues = append(eduIssues, fmt.Sprintf("Missing dates (-%s points)", d))
		}

		hasDetails := false
		for _, e := range entries {
			if truthy(e["gpa"]) || truthy(e["courses"]) || truthy(e["highlights"]) || truthy(e["activities"]) {
				hasDetails = true
				break
			}
		}
		if !hasDetails {
			edu.deduct(intPoints(1))
			feedback = append(feedback, "Education entries lack additional details like GPA, courses, or achievements")
			eduIssues = append(eduIssues, "No additional education details (-1 point)")
		}

		edu.floorZero()
		current = current - 4 + edu.v
		if len(eduIssues) > 0 {
			detailed = append(detailed, fmt.Sprintf("Education: %s/4 points - Issues: %s", edu.String(), strings.Join(eduIssues, ", ")))
		} else {
			detailed = append(detailed, "Education: 4/4 points - Excellent education section")
		}
	}

	// 技能（5分）
	skillsRaw := doc["skills"]
	skillsList := asList(skillsRaw)
	if len(skillsList) == 0 {
		current -= 5
		feedback = append(feedback, "Missing skills section or no skills listed - skills are crucial for ATS keyword matching")
		detailed = append(detailed, "Skills: 0/5 points - No skills listed")
	} else {
		skillScore := 5
		var skillIssues []string

		skillCount := len(skillsList)
		if skillCount < 5 {
			skillScore -= 2
			feedback = append(feedback, "Very few skills listed - include a comprehensive list of relevant technical and soft skills")
			skillIssues = append(skillIssues, fmt.Sprintf("Too few skills (%d) (-2 points)", skillCount))
		} else if skillCount < 8 {
			skillScore -= 1
			feedback = append(feedback, "Consider adding more skills to improve ATS matching")
			skillIssues = append(skillIssues, fmt.Sprintf("Could use more skills (%d) (-1 point)", skillCount))
		}

		hasCategories := false
		for _, s := range skillsList {
			if m := asMap(s); m != nil && (truthy(m["category"]) || truthy(m["level"])) {
				hasCategories = true
				break
			}
		}
		if !hasCategories {
			skillScore -= 1
			feedback = append(feedback, "Skills are not categorized - consider grouping by type or proficiency level")
			skillIssues = append(skillIssues, "No skill categorization (-1 point)")
		}

		skillsText := strings.ToLower(jsonText(skillsRaw))
		hasTechnical := containsAny(skillsText, technicalIndicators)
		hasSoft := containsAny(skillsText, softIndicators)
		if !hasTechnical && !hasSoft {
			skillScore -= 2
			feedback = append(feedback, "Skills lack variety - include both technical and soft skills")
			skillIssues = append(skillIssues, "No skill variety (-2 points)")
		} else if !hasTechnical || !hasSoft {
			skillScore -= 1
			feedback = append(feedback, "Skills are imbalanced - include both technical and soft skills")
			skillIssues = append(skillIssues, "Imbalanced skill types (-1 point)")
		}

		if skillScore < 0 {
			skillScore = 0
		}
		current = current - 5 + float64(skillScore)
		if len(skillIssues) > 0 {
			detailed = append(detailed, fmt.Sprintf("Skills: %d/5 points - Issues: %s", skillScore, strings.Join(skillIssues, ", ")))
		} else {
			detailed = append(detailed, "Skills: 5/5 points - Excellent skills section")
		}
	}

	// 结构与篇幅（3分）
	contentLength := utf8.RuneCountInString(doc.Text())
	lengthScore := 3
	var lengthIssues []string

	if contentLength < 1000 {
		lengthScore -= 2
		feedback = append(feedback, "Resume appears too short - expand with more detailed information about your experience and skills")
		lengthIssues = append(lengthIssues, fmt.Sprintf("Resume too short (%d chars) (-2 points)", contentLength))
	} else if contentLength < 2000 {
		lengthScore -= 1
		feedback = append(feedback, "Resume could be more detailed - consider adding more specific information")
		lengthIssues = append(lengthIssues, fmt.Sprintf("Resume somewhat brief (%d chars) (-1 point)", contentLength))
	} else if contentLength > 15000 {
		lengthScore -= 1
		feedback = append(feedback, "Resume may be too long - consider focusing on the most relevant information")
		lengthIssues = append(lengthIssues, fmt.Sprintf("Resume too long (%d chars) (-1 point)", contentLength))
	}

	additionalSections := 0
	for _, key := range additionalSectionKeys {
		if len(asList(doc[key])) > 0 {
			additionalSections++
		}
	}
	if additionalSections == 0 {
		lengthScore = lengthScore - 1
		if lengthScore < 0 {
			lengthScore = 0
		}
		feedback = append(feedback, "Consider adding additional sections like certifications, projects, or awards")
		lengthIssues = append(lengthIssues, "No additional sections (-1 point)")
	}

	current = current - 3 + float64(lengthScore)
	if len(lengthIssues) > 0 {
		detailed = append(detailed, fmt.Sprintf("Structure & Length: %d/3 points - Issues: %s", lengthScore, strings.Join(lengthIssues, ", ")))
	} else {
		detailed = append(detailed, "Structure & Length: 3/3 points - Excellent resume structure and length")
	}

	for _, item := range detailed {
		feedback = append(feedback, "DETAILED SCORING: "+item)
	}
	if len(feedback) <= len(detailed) {
		feedback = append([]string{"Content quality and length are excellent - good detail level and appropriate sections"}, feedback...)
	}

	return max(0, current), feedback
}

// containsAny 文本是否包含任一子串
func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// matchesAnyPhrase 描述或任一亮点条目是否包含任一词
func matchesAnyPhrase(desc string, highlights []string, words []string) bool {
	for _, w := range words {
		if strings.Contains(desc, w) {
			return true
		}
		for _, h := range highlights {
			if strings.Contains(h, w) {
				return true
			}
		}
	}
	return false
}
