package storage

import "time"

// ResumeUploadMessage 简历上传事件，上传接口发布，提取消费者消费
type ResumeUploadMessage struct {
	SubmissionUUID      string    `json:"submission_uuid"`          // 提交UUID，主键
	SubmissionTimestamp time.Time `json:"submission_timestamp"`     // 提交时间戳
	SourceChannel       string    `json:"source_channel,omitempty"` // 来源渠道
	TargetJobID         string    `json:"target_job_id,omitempty"`  // 目标岗位ID
	OriginalFilename    string    `json:"original_filename"`        // 原始文件名
	OriginalFilePathOSS string    `json:"original_file_path_oss"`   // MinIO中的对象路径
	RawFileMD5          string    `json:"raw_file_md5,omitempty"`   // 原始文件MD5，失败回滚去重记录时使用
}

// ResumeParsedMessage 提取完成事件
type ResumeParsedMessage struct {
	SubmissionUUID    string `json:"submission_uuid"`                // 提交UUID
	TargetJobID       string `json:"target_job_id,omitempty"`        // 目标岗位ID
	ParsedTextPathOSS string `json:"parsed_text_path_oss,omitempty"` // 提取产物在MinIO中的路径
	ProcessingStatus  string `json:"processing_status,omitempty"`    // 处理状态
	ProcessingTime    int64  `json:"processing_time,omitempty"`      // 处理时间戳
	Error             string `json:"error,omitempty"`                // 错误信息
}
