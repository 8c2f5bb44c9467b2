package storage

import (
	"context"
	"fmt"
	"time"

	"ats-score-go/internal/config"
	"ats-score-go/internal/constants"
	"ats-score-go/internal/tracing"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound 键不存在，包装redis.Nil以便上层统一判断
var ErrNotFound = redis.Nil

// 去重和缓存操作使用的专用tracer，常规命令级追踪由redisotel钩子负责
var redisTracer = otel.Tracer("ats-score-go/storage/redis")

// Redis 提供去重集合和JD文本缓存
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,

		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute,
	}

	client := redis.NewClient(opt)

	// 命令级OpenTelemetry追踪
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close 关闭连接
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping 检查连接
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// GetMD5ExpireDuration 返回配置的MD5记录过期时间
func (r *Redis) GetMD5ExpireDuration() time.Duration {
	days := r.config.MD5RecordExpireDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

// AddRawFileMD5 记录原始文件MD5并刷新集合过期时间
func (r *Redis) AddRawFileMD5(ctx context.Context, md5Hex string) error {
	return r.addMD5WithExpiration(ctx, constants.RawFileMD5SetKey, md5Hex)
}

// RemoveRawFileMD5 从集合移除原始文件MD5，上传流程失败时回滚用
func (r *Redis) RemoveRawFileMD5(ctx context.Context, md5Hex string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.SRem(ctx, constants.RawFileMD5SetKey, md5Hex).Err()
}

// CheckRawFileMD5Exists 检查原始文件MD5是否已出现过
func (r *Redis) CheckRawFileMD5Exists(ctx context.Context, md5Hex string) (bool, error) {
	return r.md5Exists(ctx, constants.RawFileMD5SetKey, md5Hex)
}

// AddParsedTextMD5 记录提取文本MD5并刷新集合过期时间
func (r *Redis) AddParsedTextMD5(ctx context.Context, md5Hex string) error {
	return r.addMD5WithExpiration(ctx, constants.ParsedTextMD5SetKey, md5Hex)
}

// CheckParsedTextMD5Exists 检查提取文本MD5是否已出现过
func (r *Redis) CheckParsedTextMD5Exists(ctx context.Context, md5Hex string) (bool, error) {
	return r.md5Exists(ctx, constants.ParsedTextMD5SetKey, md5Hex)
}

// addMD5WithExpiration SADD加EXPIRE，集合整体过期而不是逐成员过期
func (r *Redis) addMD5WithExpiration(ctx context.Context, setKey string, md5Hex string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	ctx, span := redisTracer.Start(ctx, "Redis.AddMD5",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemRedis,
			attribute.String("db.redis.key", tracing.SafeRedisKey(setKey)),
		))
	defer span.End()

	pipe := r.Client.TxPipeline()
	pipe.SAdd(ctx, setKey, md5Hex)
	pipe.Expire(ctx, setKey, r.GetMD5ExpireDuration())
	if _, err := pipe.Exec(ctx); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("添加MD5到集合 %s 失败: %w", setKey, err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *Redis) md5Exists(ctx context.Context, setKey string, md5Hex string) (bool, error) {
	if r.Client == nil {
		return false, fmt.Errorf("redis client is not initialized")
	}
	exists, err := r.Client.SIsMember(ctx, setKey, md5Hex).Result()
	if err != nil {
		return false, fmt.Errorf("查询MD5集合 %s 失败: %w", setKey, err)
	}
	return exists, nil
}

// MapFileMD5ToSubmission 记录文件MD5到提交UUID的映射，重复上传时据此返回已有提交
func (r *Redis) MapFileMD5ToSubmission(ctx context.Context, md5Hex, submissionUUID string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyFileMD5ToSubmissionUUID, md5Hex)
	return r.Client.Set(ctx, key, submissionUUID, r.GetMD5ExpireDuration()).Err()
}

// GetSubmissionByFileMD5 查询文件MD5对应的提交UUID，不存在返回ErrNotFound
func (r *Redis) GetSubmissionByFileMD5(ctx context.Context, md5Hex string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyFileMD5ToSubmissionUUID, md5Hex)
	return r.Client.Get(ctx, key).Result()
}

// CacheJobDescription 缓存JD文本
func (r *Redis) CacheJobDescription(ctx context.Context, jobID, text string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyJobDescriptionText, jobID)
	return r.Client.Set(ctx, key, text, constants.JDCacheDuration).Err()
}

// GetCachedJobDescription 读取JD文本缓存，未命中返回ErrNotFound
func (r *Redis) GetCachedJobDescription(ctx context.Context, jobID string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}
	key := fmt.Sprintf(constants.KeyJobDescriptionText, jobID)
	return r.Client.Get(ctx, key).Result()
}
