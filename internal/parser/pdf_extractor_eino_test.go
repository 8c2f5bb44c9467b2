package parser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEinoPDFTextExtractor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err, "创建PDF提取器不应返回错误")
	require.NotNil(t, extractor, "创建的PDF提取器不应为nil")
	require.NotNil(t, extractor.parser, "PDF提取器内部的parser不应为nil")
}

func TestExtractTextFromBytesRejectsInvalidPDF(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err)

	// 不是PDF的字节流应该报错而不是返回空文本
	text, _, err := extractor.ExtractTextFromBytes(ctx, []byte("this is not a pdf"), "resume/test/original.pdf", nil)
	assert.Error(t, err, "非PDF内容应返回解析错误")
	assert.Empty(t, text)
}
