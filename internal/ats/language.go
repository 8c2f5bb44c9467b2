package ats

import (
	"fmt"
	"strings"
)

// checkLanguageQuality 语言质量检查（满分10）
// 职业语气3分、主动语态3分、语法与拼写4分
func checkLanguageQuality(doc Document) (float64, []string) {
	current := 10
	feedback := []string{}
	detailed := []string{}

	resumeStr := strings.ToLower(doc.Text())

	// 职业语气（3分）
	toneScore := 3
	var toneIssues []string

	fillerCount := 0
	for _, w := range fillerWords {
		fillerCount += strings.Count(resumeStr, " "+w+" ")
	}
	if fillerCount > 10 {
		toneScore -= 2
		feedback = append(feedback, "Excessive filler words detected - use more precise, impactful language")
		toneIssues = append(toneIssues, fmt.Sprintf("Too many filler words (%d) (-2 points)", fillerCount))
	} else if fillerCount > 5 {
		toneScore -= 1
		feedback = append(feedback, "Several filler words detected - use more precise language")
		toneIssues = append(toneIssues, fmt.Sprintf("Several filler words (%d) (-1 point)", fillerCount))
	}

	firstPersonCount := 0
	for _, p := range firstPersonPronouns {
		firstPersonCount += strings.Count(resumeStr, p)
	}
	if firstPersonCount > 10 {
		toneScore = max(0, toneScore-2)
		feedback = append(feedback, "Excessive use of first-person pronouns - focus on achievements rather than 'I' statements")
		toneIssues = append(toneIssues, fmt.Sprintf("Too many first-person pronouns (%d) (-2 points)", firstPersonCount))
	} else if firstPersonCount > 5 {
		toneScore = max(0, toneScore-1)
		feedback = append(feedback, "Several first-person pronouns - consider reducing personal references")
		toneIssues = append(toneIssues, fmt.Sprintf("Several first-person pronouns (%d) (-1 point)", firstPersonCount))
	}

	current = current - 3 + toneScore
	if len(toneIssues) > 0 {
		detailed = append(detailed, fmt.Sprintf("Professional Tone: %d/3 points - Issues: %s", toneScore, strings.Join(toneIssues, ", ")))
	} else {
		detailed = append(detailed, "Professional Tone: 3/3 points - Excellent professional tone")
	}

	// 主动语态（3分）
	voiceScore := 3
	var voiceIssues []string

	passiveCount := 0
	for _, phrase := range passiveIndicators {
		passiveCount += strings.Count(resumeStr, phrase)
	}
	switch {
	case passiveCount > 6:
		voiceScore -= 3
		feedback = append(feedback, "Significant passive voice detected - use active voice for stronger impact")
		voiceIssues = append(voiceIssues, fmt.Sprintf("Excessive passive voice (%d instances) (-3 points)", passiveCount))
	case passiveCount > 3:
		voiceScore -= 2
		feedback = append(feedback, "Moderate passive voice detected - use more active voice")
		voiceIssues = append(voiceIssues, fmt.Sprintf("Moderate passive voice (%d instances) (-2 points)", passiveCount))
	case passiveCount > 1:
		voiceScore -= 1
		feedback = append(feedback, "Some passive voice detected - prefer active voice for impact")
		voiceIssues = append(voiceIssues, fmt.Sprintf("Some passive voice (%d instances) (-1 point)", passiveCount))
	}

	actionVerbCount := 0
	for _, verb := range actionVerbs {
		actionVerbCount += strings.Count(resumeStr, " "+verb+" ")
	}
	if actionVerbCount < 3 {
		voiceScore = max(0, voiceScore-1)
		feedback = append(feedback, "Few action verbs detected - use more powerful action verbs")
		voiceIssues = append(voiceIssues, "Few action verbs (-1 point)")
	}

	current = current - 3 + voiceScore
	if len(voiceIssues) > 0 {
		detailed = append(detailed, fmt.Sprintf("Active Voice: %d/3 points - Issues: %s", voiceScore, strings.Join(voiceIssues, ", ")))
	} else {
		detailed = append(detailed, "Active Voice: 3/3 points - Excellent use of active voice")
	}

	// 语法与拼写（4分）
	grammarScore := 4
	var grammarIssues []string

	errorCount := 0
	for _, e := range commonMisspellings {
		errorCount += strings.Count(resumeStr, e)
	}
	if errorCount > 3 {
		grammarScore -= 2
		feedback = append(feedback, "Multiple potential spelling errors detected - proofread carefully")
		grammarIssues = append(grammarIssues, fmt.Sprintf("Multiple spelling errors (%d) (-2 points)", errorCount))
	} else if errorCount > 0 {
		grammarScore -= 1
		feedback = append(feedback, "Potential spelling errors detected - proofread carefully")
		grammarIssues = append(grammarIssues, fmt.Sprintf("Some spelling errors (%d) (-1 point)", errorCount))
	}

	// 时态一致性：在职经历应以现在时为主，既往经历应以过去时为主
	tenseIssuesCount := 0
	for _, job := range entryDocs(asList(experienceValue(doc))) {
		isCurrent := false
		if v, ok := job["endDate"]; ok {
			if s, isStr := v.(string); isStr {
				_, isCurrent = currentEndDates[s]
			}
		}

		desc := strings.ToLower(asString(job["description"]))
		if desc == "" {
			continue
		}

		if isCurrent {
			pastCount := 0
			for _, verb := range pastTenseVerbs {
				pastCount += strings.Count(desc, verb)
			}
			if pastCount > 3 {
				tenseIssuesCount++
			}
		} else {
			presentCount := 0
			for _, verb := range presentTenseVerbs {
				presentCount += strings.Count(desc, verb)
			}
			if presentCount > 3 {
				tenseIssuesCount++
			}
		}
	}
	if tenseIssuesCount > 2 {
		grammarScore = max(0, grammarScore-2)
		feedback = append(feedback, "Significant inconsistency in verb tense - use present tense for current positions and past tense for previous positions")
		grammarIssues = append(grammarIssues, fmt.Sprintf("Significant tense inconsistency (%d positions) (-2 points)", tenseIssuesCount))
	} else if tenseIssuesCount > 0 {
		grammarScore = max(0, grammarScore-1)
		feedback = append(feedback, "Some inconsistency in verb tense - maintain consistent tense based on position status")
		grammarIssues = append(grammarIssues, fmt.Sprintf("Some tense inconsistency (%d positions) (-1 point)", tenseIssuesCount))
	}

	fragments := 0
	for _, sentence := range sentencePattern.FindAllString(resumeStr, -1) {
		if len(strings.Fields(strings.TrimSpace(sentence))) < 3 {
			fragments++
		}
	}
	if fragments > 5 {
		grammarScore = max(0, grammarScore-1)
		feedback = append(feedback, "Multiple sentence fragments detected - use complete sentences")
		grammarIssues = append(grammarIssues, fmt.Sprintf("Multiple sentence fragments (%d) (-1 point)", fragments))
	}

	current = current - 4 + grammarScore
	if len(grammarIssues) > 0 {
		detailed = append(detailed, fmt.Sprintf("Grammar & Spelling: %d/4 points - Issues: %s", grammarScore, strings.Join(grammarIssues, ", ")))
	} else {
		detailed = append(detailed, "Grammar & Spelling: 4/4 points - Excellent grammar and spelling")
	}

	for _, item := range detailed {
		feedback = append(feedback, "DETAILED SCORING: "+item)
	}
	if len(feedback) <= len(detailed) {
		feedback = append([]string{"Language quality is excellent - professional tone and good grammar"}, feedback...)
	}

	return max(0, float64(current)), feedback
}
