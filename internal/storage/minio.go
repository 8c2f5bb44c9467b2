package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ats-score-go/internal/config"
	"ats-score-go/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// ObjectStorage 对象存储接口
type ObjectStorage interface {
	// UploadResumeFile 上传原始简历文件，返回对象键
	UploadResumeFile(ctx context.Context, submissionUUID, fileExt string, reader io.Reader, fileSize int64) (string, error)

	// GetResumeFile 下载原始简历文件
	GetResumeFile(ctx context.Context, objectKey string) ([]byte, error)

	// UploadParsedText 上传提取出的纯文本
	UploadParsedText(ctx context.Context, submissionUUID string, text string) (string, error)

	// UploadParsedJSON 上传解析出的结构化简历JSON
	UploadParsedJSON(ctx context.Context, submissionUUID string, data []byte) (string, error)

	// GetParsedText 下载提取文本
	GetParsedText(ctx context.Context, objectKey string) (string, error)

	// GetParsedJSON 下载结构化简历JSON
	GetParsedJSON(ctx context.Context, objectKey string) ([]byte, error)

	// GetPresignedURL 获取原始文件的预签名下载URL
	GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)

	// DeleteResumeFile 删除原始文件
	DeleteResumeFile(ctx context.Context, objectKey string) error
}

var _ ObjectStorage = (*MinIO)(nil)

// MinIO 提供简历文件的对象存储
type MinIO struct {
	client         *minio.Client
	cfg            *config.MinIOConfig
	originalBucket string
	parsedBucket   string
}

// NewMinIO 创建MinIO客户端并确保存储桶和生命周期规则就绪
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	originalBucket := cfg.OriginalsBucket
	if originalBucket == "" {
		originalBucket = "resume-originals"
	}
	parsedBucket := cfg.ParsedBucket
	if parsedBucket == "" {
		parsedBucket = "resume-parsed"
	}

	m := &MinIO{
		client:         client,
		cfg:            cfg,
		originalBucket: originalBucket,
		parsedBucket:   parsedBucket,
	}

	if err := m.ensureBucketExists(originalBucket, cfg.Location); err != nil {
		return nil, fmt.Errorf("确保原始简历存储桶 %s 存在失败: %w", originalBucket, err)
	}
	if err := m.ensureBucketExists(parsedBucket, cfg.Location); err != nil {
		return nil, fmt.Errorf("确保解析产物存储桶 %s 存在失败: %w", parsedBucket, err)
	}

	if cfg.OriginalFileExpireDays > 0 || cfg.ParsedFileExpireDays > 0 {
		if err := m.setupLifecycleRules(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("设置MinIO生命周期规则失败")
		}
	}

	logger.Info().
		Str("endpoint", cfg.Endpoint).
		Str("originals_bucket", originalBucket).
		Str("parsed_bucket", parsedBucket).
		Msg("MinIO客户端初始化成功")
	return m, nil
}

// ensureBucketExists 确保存储桶存在
func (m *MinIO) ensureBucketExists(bucketName, location string) error {
	exists, err := m.client.BucketExists(context.Background(), bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", bucketName, err)
	}
	if !exists {
		if err := m.client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
			return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
		}
		logger.Info().Str("bucket", bucketName).Msg("存储桶创建成功")
	}
	return nil
}

// setupLifecycleRules 为两个存储桶设置过期规则
func (m *MinIO) setupLifecycleRules(ctx context.Context) error {
	if m.cfg.OriginalFileExpireDays > 0 {
		if err := m.setupBucketLifecycle(ctx, m.originalBucket, "expire-originals", m.cfg.OriginalFileExpireDays); err != nil {
			return fmt.Errorf("为原始文件存储桶 %s 设置生命周期失败: %w", m.originalBucket, err)
		}
	}
	if m.cfg.ParsedFileExpireDays > 0 {
		if err := m.setupBucketLifecycle(ctx, m.parsedBucket, "expire-parsed", m.cfg.ParsedFileExpireDays); err != nil {
			return fmt.Errorf("为解析产物存储桶 %s 设置生命周期失败: %w", m.parsedBucket, err)
		}
	}
	return nil
}

func (m *MinIO) setupBucketLifecycle(ctx context.Context, bucketName, ruleID string, expiryDays int) error {
	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{
		{
			ID:     ruleID,
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expiryDays),
			},
		},
	}
	return m.client.SetBucketLifecycle(ctx, bucketName, lc)
}

// originalObjectKey 原始文件的对象键，例如 resume/{uuid}/original.pdf
func originalObjectKey(submissionUUID, fileExt string) string {
	return fmt.Sprintf("resume/%s/original%s", submissionUUID, fileExt)
}

// UploadResumeFile 上传原始简历文件到originals存储桶
func (m *MinIO) UploadResumeFile(ctx context.Context, submissionUUID, fileExt string, reader io.Reader, fileSize int64) (string, error) {
	objectName := originalObjectKey(submissionUUID, fileExt)
	_, err := m.client.PutObject(ctx, m.originalBucket, objectName, reader, fileSize,
		minio.PutObjectOptions{ContentType: getContentType(fileExt)})
	if err != nil {
		return "", fmt.Errorf("上传对象 %s/%s 失败: %w", m.originalBucket, objectName, err)
	}
	return objectName, nil
}

// GetResumeFile 从originals存储桶下载原始简历文件
func (m *MinIO) GetResumeFile(ctx context.Context, objectKey string) ([]byte, error) {
	return m.download(ctx, m.originalBucket, objectKey)
}

// UploadParsedText 上传提取出的纯文本到parsed存储桶
func (m *MinIO) UploadParsedText(ctx context.Context, submissionUUID string, text string) (string, error) {
	objectName := fmt.Sprintf("resume/%s/parsed_text.txt", submissionUUID)
	_, err := m.client.PutObject(ctx, m.parsedBucket, objectName, strings.NewReader(text), int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return "", fmt.Errorf("上传解析文本 %s 到存储桶 %s 失败: %w", objectName, m.parsedBucket, err)
	}
	return objectName, nil
}

// UploadParsedJSON 上传结构化简历JSON到parsed存储桶
func (m *MinIO) UploadParsedJSON(ctx context.Context, submissionUUID string, data []byte) (string, error) {
	objectName := fmt.Sprintf("resume/%s/parsed.json", submissionUUID)
	_, err := m.client.PutObject(ctx, m.parsedBucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("上传解析JSON %s 到存储桶 %s 失败: %w", objectName, m.parsedBucket, err)
	}
	return objectName, nil
}

// GetParsedText 从parsed存储桶下载提取文本
func (m *MinIO) GetParsedText(ctx context.Context, objectKey string) (string, error) {
	data, err := m.download(ctx, m.parsedBucket, objectKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetParsedJSON 从parsed存储桶下载结构化简历JSON
func (m *MinIO) GetParsedJSON(ctx context.Context, objectKey string) ([]byte, error) {
	return m.download(ctx, m.parsedBucket, objectKey)
}

// download 通用下载
func (m *MinIO) download(ctx context.Context, bucketName, objectKey string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取对象 %s/%s 失败: %w", bucketName, objectKey, err)
	}
	defer obj.Close()

	// Stat在对象不存在时报错，GetObject本身是惰性的
	if _, err := obj.Stat(); err != nil {
		return nil, fmt.Errorf("获取对象 %s/%s 状态失败: %w", bucketName, objectKey, err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取对象 %s/%s 数据失败: %w", bucketName, objectKey, err)
	}
	return data, nil
}

// GetPresignedURL 获取原始文件的预签名下载URL
func (m *MinIO) GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	presignedURL, err := m.client.PresignedGetObject(ctx, m.originalBucket, objectKey, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("生成MinIO预签名URL失败: %w", err)
	}
	return presignedURL.String(), nil
}

// DeleteResumeFile 删除原始文件
func (m *MinIO) DeleteResumeFile(ctx context.Context, objectKey string) error {
	if err := m.client.RemoveObject(ctx, m.originalBucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除对象 %s 失败: %w", objectKey, err)
	}
	return nil
}

// getContentType 按扩展名推断内容类型
func getContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case ".json":
		return "application/json"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
