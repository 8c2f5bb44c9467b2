package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ats-score-go/internal/logger"
	"ats-score-go/internal/storage/models"

	"github.com/gofrs/uuid/v5"
	"gorm.io/gorm"
)

// JobUpsertRequest 岗位创建/更新请求
type JobUpsertRequest struct {
	JobTitle           string `json:"jobTitle"`
	Department         string `json:"department,omitempty"`
	Location           string `json:"location,omitempty"`
	JobDescriptionText string `json:"jobDescriptionText"`
	Status             string `json:"status,omitempty"`
}

// JobResponse 岗位响应
type JobResponse struct {
	JobID     string    `json:"job_id"`
	JobTitle  string    `json:"job_title"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseJobUpsertRequest 解析并校验岗位请求体
func ParseJobUpsertRequest(body []byte) (*JobUpsertRequest, error) {
	if len(body) == 0 {
		return nil, NewRequestError("request body is empty")
	}
	var req JobUpsertRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, NewRequestError("invalid JSON request body: %v", err)
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		return nil, NewRequestError("jobTitle is required")
	}
	if strings.TrimSpace(req.JobDescriptionText) == "" {
		return nil, NewRequestError("jobDescriptionText is required")
	}
	return &req, nil
}

// CreateJob 创建岗位记录，JD文本同步写入缓存供评分接口使用
func (h *ATSHandler) CreateJob(ctx context.Context, req *JobUpsertRequest) (*JobResponse, error) {
	if h.storage == nil || h.storage.MySQL == nil {
		return nil, fmt.Errorf("数据库未初始化，无法创建岗位")
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}

	status := req.Status
	if status == "" {
		status = "ACTIVE"
	}
	job := &models.Job{
		JobID:              uuidV7.String(),
		JobTitle:           req.JobTitle,
		Department:         req.Department,
		Location:           req.Location,
		JobDescriptionText: req.JobDescriptionText,
		Status:             status,
	}
	if err := h.storage.MySQL.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("创建岗位记录失败: %w", err)
	}

	h.cacheJobDescription(ctx, job)

	logger.Info().Str("job_id", job.JobID).Str("job_title", job.JobTitle).Msg("岗位创建完成")
	return &JobResponse{
		JobID:     job.JobID,
		JobTitle:  job.JobTitle,
		Status:    job.Status,
		UpdatedAt: job.UpdatedAt,
	}, nil
}

// UpdateJob 更新岗位记录并刷新JD缓存
func (h *ATSHandler) UpdateJob(ctx context.Context, jobID string, req *JobUpsertRequest) (*JobResponse, error) {
	if jobID == "" {
		return nil, NewRequestError("job id is required")
	}
	if h.storage == nil || h.storage.MySQL == nil {
		return nil, fmt.Errorf("数据库未初始化，无法更新岗位")
	}

	job, err := h.storage.MySQL.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewRequestError("job %s not found", jobID)
		}
		return nil, fmt.Errorf("查询岗位信息失败: %w", err)
	}

	job.JobTitle = req.JobTitle
	job.Department = req.Department
	job.Location = req.Location
	job.JobDescriptionText = req.JobDescriptionText
	if req.Status != "" {
		job.Status = req.Status
	}
	if err := h.storage.MySQL.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("更新岗位记录失败: %w", err)
	}

	// 缓存不刷新的话，24小时内的评分会用到旧JD
	h.cacheJobDescription(ctx, job)

	logger.Info().Str("job_id", job.JobID).Msg("岗位更新完成")
	return &JobResponse{
		JobID:     job.JobID,
		JobTitle:  job.JobTitle,
		Status:    job.Status,
		UpdatedAt: job.UpdatedAt,
	}, nil
}

// cacheJobDescription 写JD缓存，失败只告警
func (h *ATSHandler) cacheJobDescription(ctx context.Context, job *models.Job) {
	if h.storage.Redis == nil {
		return
	}
	if err := h.storage.Redis.CacheJobDescription(ctx, job.JobID, job.JobDescriptionText); err != nil {
		logger.Warn().Err(err).Str("job_id", job.JobID).Msg("写入JD缓存失败")
	}
}
