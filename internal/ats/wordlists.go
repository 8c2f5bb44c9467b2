package ats

import "regexp"

// 各检查器使用的词表，进程启动时初始化一次，只读
// 词表内容即产品的评分口径，调整任何一项都会改变打分结果

// standardSections 标准简历区块名，区块检查器按此表做大小写不敏感匹配
var standardSections = []string{
	"summary", "experience", "work", "employment", "education",
	"skills", "certifications", "projects", "achievements", "languages",
}

// summaryKeywords 摘要中体现专业性的形容词，命中3个以上视为优秀摘要
var summaryKeywords = []string{
	"experienced", "professional", "skilled", "expertise", "background",
	"accomplished", "qualified", "specialized", "proficient",
}

// actionVerbs 成就导向的动作动词
var actionVerbs = []string{
	"achieved", "improved", "led", "managed", "created", "developed", "implemented",
	"increased", "decreased", "negotiated", "coordinated", "organized", "delivered",
	"designed", "launched", "optimized", "reduced", "streamlined", "transformed",
}

// achievementIndicators 量化成果指示词
var achievementIndicators = []string{
	"increased", "decreased", "reduced", "improved", "grew", "saved",
	"generated", "delivered", "achieved", "won", "awarded", "recognized",
}

// technicalIndicators / softIndicators 技能多样性判断用的类别指示词
var technicalIndicators = []string{
	"programming", "software", "technology", "system", "database", "framework", "language",
}

var softIndicators = []string{
	"communication", "leadership", "teamwork", "problem-solving", "management", "organization",
}

// stopWords 职位描述关键词提取时剔除的常见虚词
var stopWords = map[string]struct{}{
	"and": {}, "the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"for": {}, "with": {}, "by": {}, "of": {}, "or": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "but": {}, "if": {}, "then": {}, "else": {},
	"when": {}, "up": {}, "down": {}, "out": {}, "about": {}, "our": {}, "we": {},
	"us": {}, "your": {}, "you": {}, "their": {}, "they": {}, "them": {}, "this": {},
	"that": {}, "these": {}, "those": {}, "will": {}, "would": {}, "should": {},
	"could": {}, "can": {}, "may": {}, "might": {}, "must": {}, "shall": {},
}

// skillIndicators 技能引导词，其后紧跟的词很可能是岗位要求的具体技能
var skillIndicators = map[string]struct{}{
	"experience": {}, "knowledge": {}, "proficiency": {}, "skill": {},
	"ability": {}, "familiar": {}, "proficient": {},
}

// fillerWords 弱化表达的填充词，带空格前后缀做整词匹配
var fillerWords = []string{
	"very", "really", "basically", "actually", "literally", "just", "quite",
	"simply", "that", "totally", "definitely", "certainly", "probably", "usually",
}

// firstPersonPronouns 第一人称代词，尾部空格保留以贴合原口径的子串计数
var firstPersonPronouns = []string{
	"i ", "me ", "my ", "mine ", "myself ", "we ", "our ", "us ",
}

// passiveIndicators 被动语态短语
var passiveIndicators = []string{
	"was performed", "were provided", "was responsible", "were made",
	"was created", "were developed", "was managed", "were handled",
	"was utilized", "were utilized", "was completed", "were completed",
	"was conducted", "were conducted", "was implemented", "were implemented",
}

// commonMisspellings 高频拼写错误表
var commonMisspellings = []string{
	"recieve", "accomodate", "seperate", "occured", "refered", "beleive",
	"acheive", "recieved", "occuring", "definately", "relevent", "alot",
	"thier", "wich", "becuase", "untill", "accross", "reccomend", "supercede",
}

// presentTenseVerbs / pastTenseVerbs 时态一致性检查的基准动词
var presentTenseVerbs = []string{
	"manage", "lead", "create", "develop", "implement", "coordinate", "organize",
}

var pastTenseVerbs = []string{
	"managed", "led", "created", "developed", "implemented", "coordinated", "organized",
}

// currentEndDates 表示"至今"的endDate取值
var currentEndDates = map[string]struct{}{
	"Present": {}, "present": {}, "Current": {}, "current": {}, "": {},
}

// bulletVariations 项目符号字形变体，超过两种即视为风格不统一
var bulletVariations = []string{
	"•", "‣", "⁃", "⁌", "⁍", "-", "*", "o", "▪", "▫", "◦", "⦿", "⦾",
}

// specialPunctuation ASCII标点全集去掉简历常用的安全集 . , - : ; ( ) / @
var specialPunctuation = map[rune]struct{}{
	'!': {}, '"': {}, '#': {}, '$': {}, '%': {}, '&': {}, '\'': {}, '*': {},
	'+': {}, '<': {}, '=': {}, '>': {}, '?': {}, '[': {}, '\\': {}, ']': {},
	'^': {}, '_': {}, '`': {}, '{': {}, '|': {}, '}': {}, '~': {},
}

// allowedNonASCII 允许出现的排版类非ASCII字符
const allowedNonASCII = "•–—“”‘’…€£¥"

// additionalSectionKeys 加分的补充区块
var additionalSectionKeys = []string{
	"certifications", "projects", "awards", "publications", "volunteer",
}

var (
	// emailPattern 宽松的 local@domain.tld 形状校验，只锚定开头
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

	// jobTokenPattern 职位描述分词：字母开头，允许 + # - . 以保留 node.js 一类术语
	jobTokenPattern = regexp.MustCompile(`\b[a-z][a-z0-9+#\-.]{2,}\b`)

	// wordPattern 统计总词数
	wordPattern = regexp.MustCompile(`\b\w+\b`)

	// sentencePattern 句子样片段，用于短句碎片检测
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]`)

	// 日期格式探测
	dateYearMonthPattern = regexp.MustCompile(`\d{4}-\d{2}`)
	dateMonthnamePattern = regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{4}\b`)
	dateSlashPattern     = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
)
