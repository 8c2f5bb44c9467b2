package ats

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(jd string) []string {
	return jobTokenPattern.FindAllString(strings.ToLower(jd), -1)
}

// TestExtractJobKeywordsFrequencyOrder 按词频降序，同频按首次出现顺序
func TestExtractJobKeywordsFrequencyOrder(t *testing.T) {
	keywords := extractJobKeywords(tokenize("zebra apple zebra apple mango"))
	assert.Equal(t, []string{"zebra", "apple", "mango"}, keywords)
}

// TestExtractJobKeywordsStopWords 停用词和短词不进入候选
func TestExtractJobKeywordsStopWords(t *testing.T) {
	keywords := extractJobKeywords(tokenize("the and for with python ml ai"))
	assert.Equal(t, []string{"python"}, keywords)
}

// TestExtractJobKeywordsDottedTokens 带点号的技术词保持完整
func TestExtractJobKeywordsDottedTokens(t *testing.T) {
	keywords := extractJobKeywords(tokenize("We use node.js with react daily"))
	assert.Contains(t, keywords, "node.js")
	assert.Contains(t, keywords, "react")
	assert.NotContains(t, keywords, "with", "停用词不应出现")
}

// TestExtractJobKeywordsSkillIndicatorAppend 技能引导词后面的词补进前25
func TestExtractJobKeywordsSkillIndicatorAppend(t *testing.T) {
	// 先用20个高频词占满基础名额，再通过"familiar golang"追加
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		word := fmt.Sprintf("term%02d", i)
		sb.WriteString(word + " " + word + " ")
	}
	sb.WriteString("familiar golang")

	keywords := extractJobKeywords(tokenize(sb.String()))
	require.Len(t, keywords, 21)
	assert.Equal(t, "golang", keywords[20])
	assert.NotContains(t, keywords, "familiar")
}

// TestKeywordMatchingPoorAlignment 完全不相关的职位描述只能拿到保底分
func TestKeywordMatchingPoorAlignment(t *testing.T) {
	score, feedback := checkKeywordMatching(sampleResume(), "accountant payroll ledger auditing taxes")
	require.NotEmpty(t, feedback)
	assert.Equal(t, "Poor keyword matching (under 40% match) - resume needs significant tailoring to the job description", feedback[0])
	assert.Less(t, score, float64(10))

	// 缺失关键词建议最多列5个
	var suggestion string
	for _, f := range feedback {
		if strings.HasPrefix(f, "Consider adding these important keywords: ") {
			suggestion = f
			break
		}
	}
	require.NotEmpty(t, suggestion, "应给出缺失关键词建议")
	listed := strings.Split(strings.TrimPrefix(suggestion, "Consider adding these important keywords: "), ", ")
	assert.LessOrEqual(t, len(listed), 5)
}

// TestKeywordMatchingStrongAlignment 样本简历对照匹配的职位描述应超过20分
func TestKeywordMatchingStrongAlignment(t *testing.T) {
	score, feedback := checkKeywordMatching(sampleResume(), sampleJobDescription)
	assert.Greater(t, score, float64(20))
	require.NotEmpty(t, feedback)
	assert.Equal(t, "Good keyword matching (60-80% match), but some important terms are missing", feedback[0])
}

// TestCountWordOccurrences 整词边界计数，不匹配词内子串
func TestCountWordOccurrences(t *testing.T) {
	text := "react is here and reactive is not, react again"
	assert.Equal(t, 2, countWordOccurrences(text, "react"))
	assert.Equal(t, 1, countWordOccurrences("ship node.js services with node.json configs", "node.js"))
}

// TestNaturalKeywordContext 无可抽查片段时不惩罚，出现完整语句即视为自然
func TestNaturalKeywordContext(t *testing.T) {
	assert.True(t, naturalKeywordContext("reactive programming everywhere", []string{"react"}),
		"子串命中但无整词出现时抽查不到片段，不应惩罚")
	assert.True(t, naturalKeywordContext("we shipped the golang service to production last year.", []string{"golang"}))
	assert.False(t, naturalKeywordContext("golang. java. python.", []string{"golang", "java", "python"}),
		"全部片段都过短时应判定为生硬堆砌")
}
