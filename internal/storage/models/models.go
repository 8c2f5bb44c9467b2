package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job 岗位信息表，JD文本是评分时的关键词来源
type Job struct {
	JobID              string    `gorm:"type:char(36);primaryKey"`
	JobTitle           string    `gorm:"type:varchar(255);not null"`
	Department         string    `gorm:"type:varchar(255)"`
	Location           string    `gorm:"type:varchar(255)"`
	JobDescriptionText string    `gorm:"type:text;not null"`
	Status             string    `gorm:"type:varchar(50);default:'ACTIVE';index:idx_jobs_status"`
	CreatedAt          time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt          time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}

// ResumeSubmission 简历提交/快照表
// 记录上传的原始文件、提取产物的对象路径和处理状态
type ResumeSubmission struct {
	SubmissionUUID      string         `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	SourceChannel       string         `gorm:"type:varchar(100)"`
	TargetJobID         *string        `gorm:"type:char(36);index:idx_rs_target_job_id"` // 可空，删除岗位时置NULL
	OriginalFilename    string         `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string         `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string         `gorm:"type:varchar(1024)"`
	RawFileMD5          string         `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	RawTextMD5          string         `gorm:"type:char(32);index:idx_rs_raw_text_md5"`
	ParsedBasicsJSON    datatypes.JSON `gorm:"type:json"`
	ProcessingStatus    string         `gorm:"type:varchar(50);default:'PENDING_PARSING';index:idx_rs_processing_status"`
	ParserVersion       string         `gorm:"type:varchar(50)"`
	CreatedAt           time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Job *Job `gorm:"foreignKey:TargetJobID;references:JobID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}
