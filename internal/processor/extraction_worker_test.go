package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractTextPlainFormats 纯文本格式直接按字节返回
func TestExtractTextPlainFormats(t *testing.T) {
	w := &ExtractionWorker{}

	text, err := w.extractText(context.Background(), ".txt", []byte("hello resume"), "resume/x/original.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello resume", text)

	text, err = w.extractText(context.Background(), ".json", []byte(`{"basics":{}}`), "resume/x/original.json")
	require.NoError(t, err)
	assert.Equal(t, `{"basics":{}}`, text)
}

// TestExtractTextUnsupportedExtension 未知扩展名应报错而不是静默跳过
func TestExtractTextUnsupportedExtension(t *testing.T) {
	w := &ExtractionWorker{}

	_, err := w.extractText(context.Background(), ".docx", []byte("data"), "resume/x/original.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".docx")
}

// TestProcessUploadMessageDropsPoisonMessages 坏消息应Ack丢弃，避免无限重投
func TestProcessUploadMessageDropsPoisonMessages(t *testing.T) {
	w := &ExtractionWorker{}

	// 非法JSON
	assert.True(t, w.ProcessUploadMessage([]byte(`{not json`)), "反序列化失败的消息应直接Ack")

	// 缺少必要字段
	assert.True(t, w.ProcessUploadMessage([]byte(`{"submission_uuid":""}`)), "缺少UUID的消息应直接Ack")
	assert.True(t, w.ProcessUploadMessage([]byte(`{"submission_uuid":"abc"}`)), "缺少对象路径的消息应直接Ack")
}

// TestMD5Hex 文本MD5与标准实现一致
func TestMD5Hex(t *testing.T) {
	// echo -n "hello" | md5sum
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", md5Hex("hello"))
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", md5Hex(""))
}
