package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseJobUpsertRequest 合法岗位请求的解析
func TestParseJobUpsertRequest(t *testing.T) {
	body := []byte(`{"jobTitle":"Backend Engineer","department":"Platform","location":"Remote",` +
		`"jobDescriptionText":"Build Go services with MySQL and Redis."}`)

	req, err := ParseJobUpsertRequest(body)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", req.JobTitle)
	assert.Equal(t, "Platform", req.Department)
	assert.Equal(t, "Build Go services with MySQL and Redis.", req.JobDescriptionText)
	assert.Empty(t, req.Status, "未指定状态时留空，由创建逻辑补默认值")
}

// TestParseJobUpsertRequestRejectsInvalidBodies 非法岗位请求体都应归为客户端错误
func TestParseJobUpsertRequestRejectsInvalidBodies(t *testing.T) {
	cases := []struct {
		name string
		body []byte
	}{
		{"空请求体", nil},
		{"非法JSON", []byte(`{"jobTitle":`)},
		{"缺少标题", []byte(`{"jobDescriptionText":"desc"}`)},
		{"标题只有空白", []byte(`{"jobTitle":"   ","jobDescriptionText":"desc"}`)},
		{"缺少JD文本", []byte(`{"jobTitle":"Engineer"}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseJobUpsertRequest(tc.body)
			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, IsRequestError(err), "解析失败应该是客户端错误而不是服务端错误")
		})
	}
}

// TestUpdateJobRequiresJobID 缺少岗位ID时直接返回客户端错误，不触碰存储
func TestUpdateJobRequiresJobID(t *testing.T) {
	h := &ATSHandler{}
	resp, err := h.UpdateJob(context.Background(), "", &JobUpsertRequest{
		JobTitle:           "Engineer",
		JobDescriptionText: "desc",
	})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, IsRequestError(err))
}
