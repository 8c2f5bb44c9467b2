package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"ats-score-go/internal/logger"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// EinoPDFTextExtractor 使用 Eino PDF Parser 提取文本
type EinoPDFTextExtractor struct {
	parser *pdf.PDFParser
}

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器
// 不按页面分割，整个文档作为一段连续文本返回
func NewEinoPDFTextExtractor(ctx context.Context) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	return &EinoPDFTextExtractor{parser: p}, nil
}

// ExtractFromFile 从PDF文件提取文本和元数据
func (e *EinoPDFTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open PDF file %s: %w", filePath, err)
	}
	defer file.Close()

	extraMeta := map[string]interface{}{
		"source_file_path": filePath,
		"extraction_time":  time.Now().Format(time.RFC3339),
	}

	text, metadata, err := e.ExtractTextFromReader(ctx, file, filePath, extraMeta)
	if err != nil {
		return "", nil, err
	}

	logger.Debug().
		Str("file", filePath).
		Int("chars", len(text)).
		Dur("elapsed", time.Since(startTime)).
		Msg("PDF文件提取完成")
	return text, metadata, nil
}

// ExtractTextFromReader 从 io.Reader 中提取文本
// 返回: 提取的文本内容, 解析器元数据, 错误
func (e *EinoPDFTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error) {
	if extraMeta == nil {
		extraMeta = make(map[string]interface{})
	}

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(extraMeta),
	)

	duration := time.Since(startTime)
	if err != nil {
		return "", extraMeta, fmt.Errorf("eino PDF parser failed for URI %s: %w", uri, err)
	}

	if len(docs) == 0 {
		return "", extraMeta, fmt.Errorf("eino PDF parser returned no documents for URI %s", uri)
	}

	// ToPages=false时通常只有一个文档，多个时拼接
	var fullContent string
	for i, doc := range docs {
		fullContent += doc.Content
		if i < len(docs)-1 {
			fullContent += "\n\n"
		}
	}

	var finalMetadata map[string]interface{}
	if docs[0].MetaData != nil {
		finalMetadata = docs[0].MetaData
	} else {
		finalMetadata = make(map[string]interface{})
	}
	for k, v := range extraMeta {
		finalMetadata[k] = v
	}
	finalMetadata["processing_duration_ms"] = duration.Milliseconds()
	finalMetadata["document_count"] = len(docs)
	finalMetadata["text_length"] = len(fullContent)

	logger.Debug().
		Str("uri", uri).
		Int("chars", len(fullContent)).
		Int("documents", len(docs)).
		Dur("elapsed", duration).
		Msg("PDF文本提取完成")
	return fullContent, finalMetadata, nil
}

// ExtractTextFromBytes 从字节数组提取文本
func (e *EinoPDFTextExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error) {
	return e.ExtractTextFromReader(ctx, bytes.NewReader(data), uri, extraMeta)
}
