package ats

import "strings"

// checkSectionHeaders 标准区块检查（满分15）
func checkSectionHeaders(doc Document) (float64, []string) {
	score := 15.0
	feedback := []string{}

	found := map[string]bool{}
	for _, section := range standardSections {
		if doc.Has(section) || hasKeyFold(doc, section) {
			found[section] = true
		}
	}

	if !found["experience"] && !found["work"] && !found["employment"] {
		score -= 7
		feedback = append(feedback, "Missing work experience section - critical for ATS evaluation and job matching")
	}

	if !found["education"] {
		score -= 4
		feedback = append(feedback, "Missing education section - important for qualification verification")
	}

	if !found["skills"] {
		score -= 4
		feedback = append(feedback, "Missing skills section - crucial for keyword matching in ATS systems")
	}

	// 摘要可以在顶层，也可以挂在basics下
	if !found["summary"] && !truthy(doc.Map("basics")["summary"]) {
		score -= 2
		feedback = append(feedback, "Missing professional summary - helps establish relevance quickly")
	}

	if len(feedback) == 0 {
		feedback = append(feedback, "All essential section headers are present and properly organized")
	}

	return max(0, score), feedback
}

// hasKeyFold 大小写不敏感的顶层键匹配
func hasKeyFold(doc Document, name string) bool {
	for k := range doc {
		if strings.ToLower(k) == name {
			return true
		}
	}
	return false
}
