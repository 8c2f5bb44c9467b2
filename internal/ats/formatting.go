package ats

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// checkFormatting 格式检查（满分10）
// 结构4分、字符使用3分、格式一致性3分，全部基于文档序列化文本的词法特征
func checkFormatting(doc Document) (float64, []string) {
	current := 10
	feedback := []string{}
	detailed := []string{}

	resumeStr := doc.Text()
	lower := strings.ToLower(resumeStr)

	// 结构（4分）：表格、图片、复杂样式标记都对ATS解析不友好
	structureScore := 4
	var structureIssues []string

	if strings.Contains(lower, "table") || strings.Contains(lower, "colspan") || strings.Contains(lower, "rowspan") {
		structureScore -= 2
		feedback = append(feedback, "Possible table structures detected - these may not parse well in ATS systems")
		structureIssues = append(structureIssues, "Table structures detected (-2 points)")
	}
	if strings.Contains(lower, "image") || strings.Contains(lower, "img") || strings.Contains(lower, ".jpg") || strings.Contains(lower, ".png") {
		structureScore -= 1
		feedback = append(feedback, "Possible image references detected - ATS systems cannot read images")
		structureIssues = append(structureIssues, "Image references detected (-1 point)")
	}
	if strings.Contains(lower, "font") || strings.Contains(lower, "style") || strings.Contains(lower, "color") {
		structureScore -= 1
		feedback = append(feedback, "Complex formatting detected - keep formatting simple for best ATS compatibility")
		structureIssues = append(structureIssues, "Complex formatting detected (-1 point)")
	}

	current = current - 4 + structureScore
	if len(structureIssues) > 0 {
		detailed = append(detailed, fmt.Sprintf("ATS-Friendly Structure: %d/4 points - Issues: %s", structureScore, strings.Join(structureIssues, ", ")))
	} else {
		detailed = append(detailed, "ATS-Friendly Structure: 4/4 points - Clean, ATS-friendly structure")
	}

	// 字符使用（3分）
	characterScore := 3
	var characterIssues []string

	specialCount := 0
	for _, r := range resumeStr {
		if _, ok := specialPunctuation[r]; ok {
			specialCount++
		}
	}
	switch {
	case specialCount > 30:
		characterScore -= 3
		feedback = append(feedback, "Excessive special characters detected - these can confuse ATS systems")
		characterIssues = append(characterIssues, fmt.Sprintf("Too many special characters (%d) (-3 points)", specialCount))
	case specialCount > 20:
		characterScore -= 2
		feedback = append(feedback, "Many special characters detected - reduce these for better ATS compatibility")
		characterIssues = append(characterIssues, fmt.Sprintf("Many special characters (%d) (-2 points)", specialCount))
	case specialCount > 10:
		characterScore -= 1
		feedback = append(feedback, "Some special characters detected - consider reducing these")
		characterIssues = append(characterIssues, fmt.Sprintf("Some special characters (%d) (-1 point)", specialCount))
	}

	nonStandardChars := 0
	for _, r := range resumeStr {
		if r > 127 && !strings.ContainsRune(allowedNonASCII, r) {
			nonStandardChars++
		}
	}
	if nonStandardChars > 10 {
		characterScore = max(0, characterScore-2)
		feedback = append(feedback, "Non-standard Unicode characters detected - these may not be recognized by ATS systems")
		characterIssues = append(characterIssues, fmt.Sprintf("Non-standard Unicode characters (%d) (-2 points)", nonStandardChars))
	} else if nonStandardChars > 0 {
		characterScore = max(0, characterScore-1)
		feedback = append(feedback, "Some non-standard Unicode characters detected - replace with standard characters")
		characterIssues = append(characterIssues, fmt.Sprintf("Some non-standard Unicode characters (%d) (-1 point)", nonStandardChars))
	}

	current = current - 3 + characterScore
	if len(characterIssues) > 0 {
		detailed = append(detailed, fmt.Sprintf("Character Usage: %d/3 points - Issues: %s", characterScore, strings.Join(characterIssues, ", ")))
	} else {
		detailed = append(detailed, "Character Usage: 3/3 points - Appropriate character usage")
	}

	// 格式一致性（3分）：项目符号、日期格式、区块标题大小写
	consistencyScore := 3
	var consistencyIssues []string

	bulletTypesUsed := 0
	for _, b := range bulletVariations {
		if strings.Contains(resumeStr, b) {
			bulletTypesUsed++
		}
	}
	if bulletTypesUsed > 2 {
		consistencyScore -= 1
		feedback = append(feedback, "Multiple bullet point styles detected - use consistent formatting")
		consistencyIssues = append(consistencyIssues, fmt.Sprintf("Multiple bullet styles (%d) (-1 point)", bulletTypesUsed))
	}

	var dateFormats []string
	if dateYearMonthPattern.MatchString(resumeStr) {
		dateFormats = append(dateFormats, "YYYY-MM")
	}
	if dateMonthnamePattern.MatchString(resumeStr) {
		dateFormats = append(dateFormats, "Month YYYY")
	}
	if dateSlashPattern.MatchString(resumeStr) {
		dateFormats = append(dateFormats, "MM/DD/YYYY")
	}
	if len(dateFormats) > 1 {
		consistencyScore -= 1
		feedback = append(feedback, "Inconsistent date formats detected - use a single date format throughout")
		consistencyIssues = append(consistencyIssues, fmt.Sprintf("Inconsistent date formats (%s) (-1 point)", strings.Join(dateFormats, ", ")))
	}

	styles := map[string]struct{}{}
	for key := range doc {
		if key == "basics" || key == "meta" || key == "schema" || key == "" {
			continue
		}
		styles[headingStyle(key)] = struct{}{}
	}
	if len(styles) > 1 {
		consistencyScore -= 1
		feedback = append(feedback, "Inconsistent capitalization in section headings - use consistent capitalization")
		consistencyIssues = append(consistencyIssues, "Inconsistent heading capitalization (-1 point)")
	}

	current = current - 3 + consistencyScore
	if len(consistencyIssues) > 0 {
		detailed = append(detailed, fmt.Sprintf("Formatting Consistency: %d/3 points - Issues: %s", consistencyScore, strings.Join(consistencyIssues, ", ")))
	} else {
		detailed = append(detailed, "Formatting Consistency: 3/3 points - Consistent formatting throughout")
	}

	for _, item := range detailed {
		feedback = append(feedback, "DETAILED SCORING: "+item)
	}
	if len(feedback) <= len(detailed) {
		feedback = append([]string{"No formatting issues detected - resume has clean, ATS-friendly formatting"}, feedback...)
	}

	return max(0, float64(current)), feedback
}

// headingStyle 标题大小写风格分类
func headingStyle(heading string) string {
	first, size := utf8.DecodeRuneInString(heading)
	rest := heading[size:]
	switch {
	case pyIsUpper(heading):
		return "ALL CAPS"
	case unicode.IsUpper(first) && pyIsLower(rest):
		return "Title Case"
	case pyIsLower(heading):
		return "lowercase"
	default:
		return "Mixed"
	}
}

// pyIsUpper 字符串含至少一个有大小写属性的字符且全部为大写
func pyIsUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r) || unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// pyIsLower 字符串含至少一个有大小写属性的字符且全部为小写
func pyIsLower(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			return false
		case unicode.IsLower(r):
			cased = true
		}
	}
	return cased
}
