package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMaskPII 掩码保留首尾便于排查，其余字符全部遮掩
func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "a*", MaskPII("ab"))
	assert.Equal(t, "a*c", MaskPII("abc"))
	assert.Equal(t, "a**d", MaskPII("abcd"))
	assert.Equal(t, "jo**an", MaskPII("jordan"))
	assert.Equal(t, "jo"+strings.Repeat("*", 20)+"om", MaskPII("jordan.avery@example.com"))
}

// TestSafeAttributeValue 属性名命中敏感关键词时掩码，否则按长度截断
func TestSafeAttributeValue(t *testing.T) {
	masked := SafeAttributeValue("user.email", "jordan.avery@example.com", DefaultMaxLength)
	assert.Equal(t, MaskPII("jordan.avery@example.com"), masked)

	// 简历文件名里通常有候选人姓名，"filename"应整体掩码
	assert.Equal(t, MaskPII("Jordan_Avery_Resume.pdf"),
		SafeAttributeValue("upload.filename", "Jordan_Avery_Resume.pdf", DefaultMaxLength))

	// 非敏感属性名只做截断
	short := SafeAttributeValue("db.operation", "SELECT", DefaultMaxLength)
	assert.Equal(t, "SELECT", short)

	long := SafeAttributeValue("db.operation", strings.Repeat("x", 300), DefaultMaxLength)
	assert.LessOrEqual(t, len(long), DefaultMaxLength)
	assert.Contains(t, long, "...")
}

// TestTruncateString 截断保留首尾并以...连接
func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abcdef", TruncateString("abcdef", 10))
	assert.Equal(t, "ab...ij", TruncateString("abcdefghij", 7))
	assert.Equal(t, "abc", TruncateString("abcdef", 3))
}

// TestSafeContentHelpers 各场景包装函数的长度上限
func TestSafeContentHelpers(t *testing.T) {
	assert.LessOrEqual(t, len(SafeSQL(strings.Repeat("s", 1000))), MaxSQLLength)
	assert.LessOrEqual(t, len(SafeRedisKey(strings.Repeat("k", 300))), MaxRedisLength)
	assert.LessOrEqual(t, len(SafeResumeContent(strings.Repeat("r", 500))), MaxResumeLength)
	assert.Equal(t, "short", SafeResumeContent("short"))
}
