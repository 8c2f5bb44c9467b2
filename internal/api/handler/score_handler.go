package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"ats-score-go/internal/ats"
	"ats-score-go/internal/config"
	"ats-score-go/internal/constants"
	"ats-score-go/internal/logger"
	"ats-score-go/internal/storage"
	"ats-score-go/internal/storage/models"
	"ats-score-go/internal/tracing"
	"ats-score-go/pkg/utils"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var handlerTracer = otel.Tracer("ats-score-go/api/handler")

// RequestError 客户端请求错误，路由层据此返回400而不是500
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// NewRequestError 创建客户端请求错误
func NewRequestError(format string, args ...interface{}) *RequestError {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// IsRequestError 判断是否为客户端请求错误
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}

// ATSCheckRequest 兼容性检查请求
// 两种模式二选一：resume内联简历JSON，或submissionUUID引用已上传的简历
type ATSCheckRequest struct {
	Resume         json.RawMessage `json:"resume,omitempty"`
	JobDescription string          `json:"jobDescription,omitempty"`
	SubmissionUUID string          `json:"submissionUUID,omitempty"`
	JobID          string          `json:"jobID,omitempty"`
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// SubmissionStatusResponse 简历处理状态响应
type SubmissionStatusResponse struct {
	SubmissionUUID    string    `json:"submission_uuid"`
	ProcessingStatus  string    `json:"processing_status"`
	OriginalFilename  string    `json:"original_filename,omitempty"`
	TargetJobID       string    `json:"target_job_id,omitempty"`
	ParsedTextPathOSS string    `json:"parsed_text_path_oss,omitempty"`
	OriginalFileURL   string    `json:"original_file_url,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ATSHandler ATS评分处理器，协调评分、上传和状态查询
type ATSHandler struct {
	cfg     *config.Config
	storage *storage.Storage
}

// NewATSHandler 创建ATS评分处理器
func NewATSHandler(cfg *config.Config, store *storage.Storage) *ATSHandler {
	return &ATSHandler{
		cfg:     cfg,
		storage: store,
	}
}

// ParseCheckRequest 解析并校验检查请求体
func ParseCheckRequest(body []byte) (*ATSCheckRequest, error) {
	if len(body) == 0 {
		return nil, NewRequestError("request body is empty")
	}
	var req ATSCheckRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, NewRequestError("invalid JSON request body: %v", err)
	}
	if len(req.Resume) == 0 && req.SubmissionUUID == "" {
		return nil, NewRequestError("either resume or submissionUUID is required")
	}
	if len(req.Resume) > 0 && req.SubmissionUUID != "" {
		return nil, NewRequestError("resume and submissionUUID are mutually exclusive")
	}
	return &req, nil
}

// CheckATS 执行ATS兼容性评分
func (h *ATSHandler) CheckATS(ctx context.Context, req *ATSCheckRequest) (*ats.ScoreReport, error) {
	doc, err := h.resolveResumeDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	jobDescription, err := h.resolveJobDescription(ctx, req)
	if err != nil {
		return nil, err
	}

	report, err := ats.Score(doc, jobDescription)
	if err != nil {
		if errors.Is(err, ats.ErrNotAnObject) {
			return nil, NewRequestError("resume must be a JSON object")
		}
		return nil, fmt.Errorf("评分失败: %w", err)
	}
	return report, nil
}

// resolveResumeDocument 取出待评分的简历文档
// 内联模式直接解码请求中的resume，引用模式读取已提取的结构化简历
func (h *ATSHandler) resolveResumeDocument(ctx context.Context, req *ATSCheckRequest) (ats.Document, error) {
	if len(req.Resume) > 0 {
		var raw any
		if err := json.Unmarshal(req.Resume, &raw); err != nil {
			return nil, NewRequestError("resume is not valid JSON: %v", err)
		}
		doc, err := ats.FromAny(raw)
		if err != nil {
			return nil, NewRequestError("resume must be a JSON object")
		}
		return doc, nil
	}

	if h.storage == nil || h.storage.MySQL == nil {
		return nil, fmt.Errorf("数据库未初始化，无法按submissionUUID查询简历")
	}

	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, req.SubmissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewRequestError("submission %s not found", req.SubmissionUUID)
		}
		return nil, fmt.Errorf("查询简历提交记录失败: %w", err)
	}

	data := []byte(submission.ParsedBasicsJSON)
	if len(data) == 0 {
		// 老记录可能只有对象存储里的结构化副本
		if h.storage.MinIO != nil {
			objectKey := fmt.Sprintf("resume/%s/parsed.json", req.SubmissionUUID)
			if stored, merr := h.storage.MinIO.GetParsedJSON(ctx, objectKey); merr == nil {
				data = stored
			}
		}
	}
	if len(data) == 0 {
		return nil, NewRequestError("submission %s has no structured resume (status: %s)", req.SubmissionUUID, submission.ProcessingStatus)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("已存储的结构化简历解码失败: %w", err)
	}
	doc, err := ats.FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("已存储的结构化简历不是JSON对象")
	}
	return doc, nil
}

// resolveJobDescription 取出JD文本
// 显式jobDescription优先，其次按jobID查缓存和数据库，都没有则按无JD模式评分
func (h *ATSHandler) resolveJobDescription(ctx context.Context, req *ATSCheckRequest) (string, error) {
	if req.JobDescription != "" {
		return req.JobDescription, nil
	}
	if req.JobID == "" {
		return "", nil
	}

	if h.storage != nil && h.storage.Redis != nil {
		if text, err := h.storage.Redis.GetCachedJobDescription(ctx, req.JobID); err == nil {
			return text, nil
		} else if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn().Err(err).Str("job_id", req.JobID).Msg("查询JD缓存失败")
		}
	}

	if h.storage == nil || h.storage.MySQL == nil {
		return "", fmt.Errorf("数据库未初始化，无法按jobID查询JD")
	}
	job, err := h.storage.MySQL.GetJobByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NewRequestError("job %s not found", req.JobID)
		}
		return "", fmt.Errorf("查询岗位信息失败: %w", err)
	}

	if h.storage.Redis != nil {
		if err := h.storage.Redis.CacheJobDescription(ctx, req.JobID, job.JobDescriptionText); err != nil {
			logger.Warn().Err(err).Str("job_id", req.JobID).Msg("写入JD缓存失败")
		}
	}
	return job.JobDescriptionText, nil
}

// ValidateUploadFile 校验上传文件的扩展名和大小
func ValidateUploadFile(cfg *config.UploadConfig, filename string, fileSize int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return NewRequestError("filename %q has no extension", filename)
	}
	allowed := false
	for _, e := range cfg.AllowedExtensions {
		if strings.EqualFold(e, ext) {
			allowed = true
			break
		}
	}
	if !allowed {
		return NewRequestError("file type %s is not allowed (allowed: %s)", ext, strings.Join(cfg.AllowedExtensions, ", "))
	}
	if cfg.MaxFileSizeMB > 0 && fileSize > int64(cfg.MaxFileSizeMB)*1024*1024 {
		return NewRequestError("file exceeds size limit of %dMB", cfg.MaxFileSizeMB)
	}
	return nil
}

// UploadResume 处理简历上传
// 文件MD5去重在MinIO上传前完成，重复文件直接返回已有提交的UUID
func (h *ATSHandler) UploadResume(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, targetJobID string, sourceChannel string) (*ResumeUploadResponse, error) {

	if h.storage == nil || h.storage.MinIO == nil || h.storage.MySQL == nil || h.storage.RabbitMQ == nil {
		return nil, fmt.Errorf("上传依赖的存储组件未初始化")
	}

	// 简历文件名通常带着候选人姓名，span属性里只留掩码值
	ctx, span := handlerTracer.Start(ctx, "Handler.UploadResume",
		trace.WithAttributes(
			attribute.String("upload.filename", tracing.SafeAttributeValue("upload.filename", filename, tracing.DefaultMaxLength)),
			attribute.String("upload.source_channel", sourceChannel),
		))
	defer span.End()

	if err := ValidateUploadFile(&h.cfg.Upload, filename, fileSize); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	// reader只能读一次，先整体读出来算MD5
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5Hex := utils.CalculateMD5(fileBytes)

	if h.storage.Redis != nil {
		exists, derr := h.storage.Redis.CheckRawFileMD5Exists(ctx, fileMD5Hex)
		if derr != nil {
			logger.Error().Err(derr).Str("md5", fileMD5Hex).Msg("查询文件MD5去重集合失败")
			tracing.RecordError(span, derr, tracing.ErrorTypeRedis)
			return nil, fmt.Errorf("检查文件重复性失败: %w", derr)
		}
		if exists {
			existingUUID, uerr := h.storage.Redis.GetSubmissionByFileMD5(ctx, fileMD5Hex)
			if uerr != nil && !errors.Is(uerr, storage.ErrNotFound) {
				logger.Warn().Err(uerr).Str("md5", fileMD5Hex).Msg("查询重复文件对应的提交UUID失败")
			}
			logger.Info().Str("md5", fileMD5Hex).Str("filename", filename).Msg("检测到重复的文件MD5，跳过处理")
			span.SetAttributes(attribute.Bool("upload.duplicate", true))
			span.SetStatus(codes.Ok, "")
			return &ResumeUploadResponse{
				SubmissionUUID: existingUUID,
				Status:         constants.StatusDuplicateFile,
			}, nil
		}
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	ext := strings.ToLower(filepath.Ext(filename))

	originalObjectKey, err := h.storage.MinIO.UploadResumeFile(ctx, submissionUUID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeStorage,
			attribute.String("submission_uuid", submissionUUID))
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	now := time.Now()
	submission := &models.ResumeSubmission{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       sourceChannel,
		TargetJobID:         utils.StringPtr(targetJobID),
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
		ProcessingStatus:    constants.StatusPendingParsing,
		ParserVersion:       h.cfg.ActiveParserVersion,
	}
	if err := h.storage.MySQL.CreateResumeSubmission(ctx, submission); err != nil {
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeDB,
			attribute.String("submission_uuid", submissionUUID))
		// 记录没建起来，把孤儿对象清掉，重传时才不会撞MD5去重
		if derr := h.storage.MinIO.DeleteResumeFile(ctx, originalObjectKey); derr != nil {
			logger.Warn().Err(derr).Str("object_key", originalObjectKey).Msg("回滚删除已上传对象失败")
		}
		return nil, fmt.Errorf("创建简历提交记录失败: %w", err)
	}

	// 去重记录失败不回滚上传，文本级去重是第二道防线
	if h.storage.Redis != nil {
		if err := h.storage.Redis.AddRawFileMD5(ctx, fileMD5Hex); err != nil {
			logger.Warn().Err(err).Str("md5", fileMD5Hex).Str("object_key", originalObjectKey).
				Msg("添加文件MD5到去重集合失败，文件已上传")
		}
		if err := h.storage.Redis.MapFileMD5ToSubmission(ctx, fileMD5Hex, submissionUUID); err != nil {
			logger.Warn().Err(err).Str("md5", fileMD5Hex).Msg("记录文件MD5到提交UUID的映射失败")
		}
	}

	message := storage.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       sourceChannel,
		TargetJobID:         targetJobID,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
	}
	err = h.storage.RabbitMQ.PublishJSON(
		ctx,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
		message,
		true,
	)
	if err != nil {
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeRabbitMQ,
			attribute.String("submission_uuid", submissionUUID))
		// 事件没发出去，这份提交不会被处理；撤掉MD5去重记录让重传能走通
		if h.storage.Redis != nil {
			if derr := h.storage.Redis.RemoveRawFileMD5(ctx, fileMD5Hex); derr != nil {
				logger.Warn().Err(derr).Str("md5", fileMD5Hex).Msg("回滚文件MD5去重记录失败")
			}
		}
		return nil, fmt.Errorf("发布上传事件到RabbitMQ失败: %w", err)
	}

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("filename", filename).
		Str("object_key", originalObjectKey).
		Msg("简历上传完成，已进入提取队列")

	span.SetAttributes(attribute.String("submission_uuid", submissionUUID))
	span.SetStatus(codes.Ok, "")
	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         constants.StatusPendingParsing,
	}, nil
}

// GetSubmissionStatus 查询简历处理状态
func (h *ATSHandler) GetSubmissionStatus(ctx context.Context, submissionUUID string) (*SubmissionStatusResponse, error) {
	if submissionUUID == "" {
		return nil, NewRequestError("submission uuid is required")
	}
	if h.storage == nil || h.storage.MySQL == nil {
		return nil, fmt.Errorf("数据库未初始化")
	}

	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewRequestError("submission %s not found", submissionUUID)
		}
		return nil, fmt.Errorf("查询简历提交记录失败: %w", err)
	}

	resp := &SubmissionStatusResponse{
		SubmissionUUID:    submission.SubmissionUUID,
		ProcessingStatus:  submission.ProcessingStatus,
		OriginalFilename:  submission.OriginalFilename,
		ParsedTextPathOSS: submission.ParsedTextPathOSS,
		UpdatedAt:         submission.UpdatedAt,
	}
	if submission.TargetJobID != nil {
		resp.TargetJobID = *submission.TargetJobID
	}

	// 原始文件的临时下载链接，生成失败不影响状态查询
	if h.storage.MinIO != nil && submission.OriginalFilePathOSS != "" {
		url, perr := h.storage.MinIO.GetPresignedURL(ctx, submission.OriginalFilePathOSS, 15*time.Minute)
		if perr != nil {
			logger.Warn().Err(perr).Str("submission_uuid", submissionUUID).Msg("生成预签名URL失败")
		} else {
			resp.OriginalFileURL = url
		}
	}
	return resp, nil
}

// ParsedTextResponse 提取文本响应
type ParsedTextResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	ParsedText     string `json:"parsed_text"`
}

// GetParsedResumeText 读取提取出的简历纯文本
func (h *ATSHandler) GetParsedResumeText(ctx context.Context, submissionUUID string) (*ParsedTextResponse, error) {
	if submissionUUID == "" {
		return nil, NewRequestError("submission uuid is required")
	}
	if h.storage == nil || h.storage.MySQL == nil || h.storage.MinIO == nil {
		return nil, fmt.Errorf("存储组件未初始化，无法读取提取文本")
	}

	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewRequestError("submission %s not found", submissionUUID)
		}
		return nil, fmt.Errorf("查询简历提交记录失败: %w", err)
	}
	if submission.ParsedTextPathOSS == "" {
		return nil, NewRequestError("submission %s has no parsed text (status: %s)", submissionUUID, submission.ProcessingStatus)
	}

	text, err := h.storage.MinIO.GetParsedText(ctx, submission.ParsedTextPathOSS)
	if err != nil {
		return nil, fmt.Errorf("读取提取文本失败: %w", err)
	}
	return &ParsedTextResponse{
		SubmissionUUID: submissionUUID,
		ParsedText:     text,
	}, nil
}
