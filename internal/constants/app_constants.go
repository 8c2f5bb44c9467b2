package constants

import "time"

const (
	// DefaultParserVer 当前提取流水线使用的解析器版本标识
	DefaultParserVer = "eino-pdf-1.0"

	// JDCacheDuration JD文本缓存过期时间
	JDCacheDuration = 24 * time.Hour

	// RawFileMD5SetKey 原始简历文件MD5去重集合
	RawFileMD5SetKey = "resumes:file_md5s"
	// ParsedTextMD5SetKey 解析文本MD5去重集合
	ParsedTextMD5SetKey = "resumes:text_md5s"
)

// 简历提交处理状态
const (
	StatusPendingParsing  = "PENDING_PARSING"
	StatusParsing         = "PARSING"
	StatusParsed          = "PARSED"
	StatusParseFailed     = "PARSE_FAILED"
	StatusDuplicateFile   = "DUPLICATE_FILE"
	StatusDuplicateParsed = "DUPLICATE_PARSED_TEXT"
)
