package handler

import (
	"context"
	"fmt"
	"testing"

	"ats-score-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseCheckRequestInlineMode 内联简历模式的请求解析
func TestParseCheckRequestInlineMode(t *testing.T) {
	body := []byte(`{"resume":{"basics":{"name":"Jane"}},"jobDescription":"Backend engineer with Go experience"}`)

	req, err := ParseCheckRequest(body)
	require.NoError(t, err, "合法的内联请求不应报错")
	assert.NotEmpty(t, req.Resume, "resume字段应该被保留为原始JSON")
	assert.Equal(t, "Backend engineer with Go experience", req.JobDescription)
	assert.Empty(t, req.SubmissionUUID)
}

// TestParseCheckRequestStoredMode 引用已上传简历模式的请求解析
func TestParseCheckRequestStoredMode(t *testing.T) {
	body := []byte(`{"submissionUUID":"0190a6e2-1111-7aaa-bbbb-cccccccccccc","jobID":"job-42"}`)

	req, err := ParseCheckRequest(body)
	require.NoError(t, err)
	assert.Empty(t, req.Resume)
	assert.Equal(t, "0190a6e2-1111-7aaa-bbbb-cccccccccccc", req.SubmissionUUID)
	assert.Equal(t, "job-42", req.JobID)
}

// TestParseCheckRequestRejectsInvalidBodies 非法请求体都应归为客户端错误
func TestParseCheckRequestRejectsInvalidBodies(t *testing.T) {
	cases := []struct {
		name string
		body []byte
	}{
		{"空请求体", nil},
		{"非法JSON", []byte(`{"resume":`)},
		{"两种模式都没给", []byte(`{"jobDescription":"something"}`)},
		{"两种模式同时给", []byte(`{"resume":{},"submissionUUID":"abc"}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseCheckRequest(tc.body)
			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, IsRequestError(err), "解析失败应该是客户端错误而不是服务端错误")
		})
	}
}

// TestValidateUploadFile 上传文件的扩展名和大小校验
func TestValidateUploadFile(t *testing.T) {
	cfg := &config.UploadConfig{
		MaxFileSizeMB:     10,
		AllowedExtensions: []string{".pdf", ".txt", ".json"},
	}

	assert.NoError(t, ValidateUploadFile(cfg, "resume.pdf", 1024))
	assert.NoError(t, ValidateUploadFile(cfg, "Resume.PDF", 1024), "扩展名匹配应忽略大小写")
	assert.NoError(t, ValidateUploadFile(cfg, "resume.json", 10*1024*1024), "恰好等于上限不算超限")

	err := ValidateUploadFile(cfg, "resume.docx", 1024)
	require.Error(t, err)
	assert.True(t, IsRequestError(err))

	err = ValidateUploadFile(cfg, "resume", 1024)
	require.Error(t, err, "没有扩展名的文件应被拒绝")

	err = ValidateUploadFile(cfg, "resume.pdf", 10*1024*1024+1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10MB")
}

// TestGetParsedResumeTextRequiresUUID 缺少UUID时直接返回客户端错误，不触碰存储
func TestGetParsedResumeTextRequiresUUID(t *testing.T) {
	h := &ATSHandler{}
	resp, err := h.GetParsedResumeText(context.Background(), "")
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, IsRequestError(err))
}

// TestIsRequestError 包装后的客户端错误也应能被识别
func TestIsRequestError(t *testing.T) {
	base := NewRequestError("bad input: %s", "field x")
	assert.True(t, IsRequestError(base))
	assert.Equal(t, "bad input: field x", base.Error())

	wrapped := fmt.Errorf("outer: %w", base)
	assert.True(t, IsRequestError(wrapped))

	assert.False(t, IsRequestError(fmt.Errorf("plain error")))
	assert.False(t, IsRequestError(nil))
}
