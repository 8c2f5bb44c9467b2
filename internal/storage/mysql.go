package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ats-score-go/internal/config"
	"ats-score-go/internal/logger"
	"ats-score-go/internal/storage/models"
	"ats-score-go/internal/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("ats-score-go/storage/mysql")

// GormTracingPlugin GORM插件，为数据库操作添加OpenTelemetry追踪
type GormTracingPlugin struct {
	tracer         trace.Tracer
	dbName         string
	dbSystem       string
	disableErrSkip bool
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}

	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}

	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}

	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}

	if err := cb.Row().Before("gorm:row").Register("otel:before_row", p.before("ROW")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("otel:after_row", p.after()); err != nil {
		return err
	}

	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("RAW")); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after()); err != nil {
		return err
	}

	return nil
}

func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if p.disableErrSkip && db.Statement.SkipHooks {
			return
		}

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		spanName := fmt.Sprintf("%s %s", operation, tableName)
		opts := []trace.SpanStartOption{
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		}

		if sqlStatement := db.Statement.SQL.String(); sqlStatement != "" {
			opts = append(opts, trace.WithAttributes(
				attribute.String("db.statement", tracing.SafeSQL(sqlStatement)),
			))
		}

		newCtx, span := p.tracer.Start(ctx, spanName, opts...)

		// span存进Statement上下文，after回调取出来收尾
		db.Statement.Context = context.WithValue(newCtx, "otel-span", span)
	}
}

func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value("otel-span").(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		if db.Error != nil {
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				// 未找到记录属于正常业务分支，不算错误
				span.SetAttributes(attribute.String("error.type", "record_not_found"))
				span.SetStatus(codes.Ok, "record not found")
			} else {
				span.SetAttributes(attribute.String("error.type", "database_error"))
				span.RecordError(db.Error)
				span.SetStatus(codes.Error, db.Error.Error())
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// NewGormTracingPlugin 创建GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer:         mysqlTracer,
		dbName:         dbName,
		dbSystem:       "mysql",
		disableErrSkip: true,
	}
}

// WithDisableErrSkip 设置是否跳过SkipHooks的语句
func (p *GormTracingPlugin) WithDisableErrSkip(disable bool) *GormTracingPlugin {
	p.disableErrSkip = disable
	return p
}

// Database 关系数据库接口
type Database interface {
	// DB 返回GORM连接实例
	DB() *gorm.DB

	// Close 关闭数据库连接
	Close() error

	// GetByID 通过ID获取记录
	GetByID(id interface{}, dest interface{}) error

	// Find 通过条件查询记录
	Find(dest interface{}, query interface{}, args ...interface{}) error

	// Save 保存/更新记录
	Save(value interface{}) error

	// Delete 删除记录
	Delete(value interface{}, query interface{}, args ...interface{}) error
}

var _ Database = (*MySQL)(nil)

// MySQL 提供岗位和简历提交记录的持久化
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端并迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	var logLevel gormlogger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = gormlogger.Silent
	case 2:
		logLevel = gormlogger.Error
	case 3:
		logLevel = gormlogger.Warn
	case 4:
		logLevel = gormlogger.Info
	default:
		logLevel = gormlogger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	m := &MySQL{
		db:  db,
		cfg: cfg,
	}

	tracingPlugin := NewGormTracingPlugin(cfg.Database).WithDisableErrSkip(true)
	if err := db.Use(tracingPlugin); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	if err := m.autoMigrateSchema(); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	logger.Info().Str("database", cfg.Database).Msg("成功连接到MySQL并完成结构迁移")
	return m, nil
}

// autoMigrateSchema 自动迁移表结构，迁移期间静默SQL日志
func (m *MySQL) autoMigrateSchema() error {
	silentLogger := gormlogger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	silentDB := m.db.Session(&gorm.Session{Logger: silentLogger})

	err := silentDB.AutoMigrate(
		&models.Job{},
		&models.ResumeSubmission{},
	)
	if err != nil {
		return fmt.Errorf("GORM自动迁移失败: %w", err)
	}
	return nil
}

// DB 返回GORM连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// GetByID 通过ID获取记录
func (m *MySQL) GetByID(id interface{}, dest interface{}) error {
	return m.db.First(dest, "id = ?", id).Error
}

// Find 通过条件查询记录
func (m *MySQL) Find(dest interface{}, query interface{}, args ...interface{}) error {
	return m.db.Where(query, args...).Find(dest).Error
}

// Save 保存/更新记录
func (m *MySQL) Save(value interface{}) error {
	return m.db.Save(value).Error
}

// Delete 删除记录
func (m *MySQL) Delete(value interface{}, query interface{}, args ...interface{}) error {
	return m.db.Where(query, args...).Delete(value).Error
}

// CreateResumeSubmission 创建简历提交记录
func (m *MySQL) CreateResumeSubmission(ctx context.Context, submission *models.ResumeSubmission) error {
	return m.db.WithContext(ctx).Create(submission).Error
}

// GetResumeSubmission 通过UUID获取简历提交记录
func (m *MySQL) GetResumeSubmission(ctx context.Context, submissionUUID string) (*models.ResumeSubmission, error) {
	var submission models.ResumeSubmission
	err := m.db.WithContext(ctx).Where("submission_uuid = ?", submissionUUID).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateResumeProcessingStatus 更新简历处理状态
func (m *MySQL) UpdateResumeProcessingStatus(ctx context.Context, submissionUUID string, status string) error {
	return m.db.WithContext(ctx).Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Update("processing_status", status).Error
}

// UpdateParsedArtifacts 提取完成后写回提取产物路径、文本MD5和结构化JSON
func (m *MySQL) UpdateParsedArtifacts(ctx context.Context, submissionUUID string, parsedTextPath string, rawTextMD5 string, basicsJSON datatypes.JSON, status string) error {
	ctx, span := mysqlTracer.Start(ctx, "MySQL.UpdateParsedArtifacts",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemMySQL,
			attribute.String("db.name", m.cfg.Database),
			attribute.String("db.sql.table", "resume_submissions"),
		))
	defer span.End()

	updates := map[string]interface{}{
		"processing_status": status,
	}
	if parsedTextPath != "" {
		updates["parsed_text_path_oss"] = parsedTextPath
	}
	if rawTextMD5 != "" {
		updates["raw_text_md5"] = rawTextMD5
	}
	if len(basicsJSON) > 0 {
		updates["parsed_basics_json"] = basicsJSON
	}

	err := m.db.WithContext(ctx).Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Updates(updates).Error
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// GetJobByID 通过JobID获取岗位记录
func (m *MySQL) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := m.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob 创建岗位记录
func (m *MySQL) CreateJob(ctx context.Context, job *models.Job) error {
	return m.db.WithContext(ctx).Create(job).Error
}

// UpdateJob 更新岗位记录，Save基于主键更新或创建
func (m *MySQL) UpdateJob(ctx context.Context, job *models.Job) error {
	return m.db.WithContext(ctx).Save(job).Error
}
