package ats

// 评分报告的值对象，结构与对外API的JSON输出一一对应

// 区块名常量，报告中的sections键与improvement_areas的area字段使用
const (
	SectionContactInfo     = "contact_info"
	SectionSectionHeaders  = "section_headers"
	SectionContentQuality  = "content_quality"
	SectionKeywordMatching = "keyword_matching"
	SectionFormatting      = "formatting"
	SectionLanguageQuality = "language_quality"
)

// ScoreReport ATS兼容性评分报告
type ScoreReport struct {
	OverallScore      int                      `json:"overall_score"`      // 总分，0-100
	MaxScore          int                      `json:"max_score"`          // 固定为100
	Sections          map[string]SectionResult `json:"sections"`           // 各维度得分明细
	Recommendations   []Recommendation         `json:"recommendations"`    // 带优先级的改进建议
	ImprovementAreas  []ImprovementArea        `json:"improvement_areas"`  // 最需要改进的维度，至多3个
	Assessment        string                   `json:"assessment"`         // 档位结论
	AssessmentDetails string                   `json:"assessment_details"` // 档位说明
}

// SectionResult 单个评分维度的结果
type SectionResult struct {
	Score    int      `json:"score"`
	MaxScore int      `json:"max_score"`
	Feedback []string `json:"feedback"`
}

// Recommendation 带优先级的建议
type Recommendation struct {
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// ImprovementArea 得分低于维度满分70%的改进项
type ImprovementArea struct {
	Area            string   `json:"area"`
	CurrentScore    int      `json:"current_score"`
	MaxScore        int      `json:"max_score"`
	Percentage      int      `json:"percentage"`
	Recommendations []string `json:"recommendations"`
}
