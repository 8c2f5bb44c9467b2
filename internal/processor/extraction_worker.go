package processor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ats-score-go/internal/config"
	"ats-score-go/internal/constants"
	"ats-score-go/internal/logger"
	"ats-score-go/internal/parser"
	"ats-score-go/internal/storage"
	"ats-score-go/internal/tracing"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// TextExtractor 从简历文件字节中提取文本
type TextExtractor interface {
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error)
}

var _ TextExtractor = (*parser.EinoPDFTextExtractor)(nil)

// ExtractionWorker 简历提取消费者
// 消费上传事件，下载原始文件，提取纯文本后写回对象存储和数据库
type ExtractionWorker struct {
	cfg       *config.Config
	storage   *storage.Storage
	extractor TextExtractor
}

// NewExtractionWorker 创建提取消费者
func NewExtractionWorker(cfg *config.Config, store *storage.Storage, extractor TextExtractor) (*ExtractionWorker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if store == nil || store.MinIO == nil || store.MySQL == nil {
		return nil, fmt.Errorf("提取消费者依赖MinIO和MySQL")
	}
	if extractor == nil {
		return nil, fmt.Errorf("文本提取器不能为空")
	}
	return &ExtractionWorker{
		cfg:       cfg,
		storage:   store,
		extractor: extractor,
	}, nil
}

// Start 声明消息拓扑并启动消费
// 返回的stopCh关闭后消费者停止
func (w *ExtractionWorker) Start(ctx context.Context) (<-chan struct{}, error) {
	mq := w.storage.RabbitMQ
	if mq == nil {
		return nil, fmt.Errorf("RabbitMQ未初始化")
	}

	mqCfg := &w.cfg.RabbitMQ
	if err := mq.EnsureExchange(mqCfg.ResumeEventsExchange, "direct", true); err != nil {
		return nil, fmt.Errorf("声明简历事件交换机失败: %w", err)
	}
	if err := mq.EnsureQueue(mqCfg.RawResumeQueue, true); err != nil {
		return nil, fmt.Errorf("声明原始简历队列失败: %w", err)
	}
	if err := mq.BindQueue(mqCfg.RawResumeQueue, mqCfg.ResumeEventsExchange, mqCfg.UploadedRoutingKey); err != nil {
		return nil, fmt.Errorf("绑定原始简历队列失败: %w", err)
	}

	return mq.StartConsumer(mqCfg.RawResumeQueue, mqCfg.PrefetchCount, w.ProcessUploadMessage)
}

// ProcessUploadMessage 处理一条上传事件
// 返回true表示Ack；解析类失败标记状态后也Ack，避免坏消息无限重投，
// 只有基础设施类错误（下载/数据库）返回false走Nack重新入队
func (w *ExtractionWorker) ProcessUploadMessage(body []byte) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var msg storage.ResumeUploadMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		logger.Error().Err(err).Msg("上传事件反序列化失败，丢弃消息")
		return true
	}
	if msg.SubmissionUUID == "" || msg.OriginalFilePathOSS == "" {
		logger.Error().Str("uuid", msg.SubmissionUUID).Msg("上传事件缺少必要字段，丢弃消息")
		return true
	}

	log := logger.Logger.With().Str("submission_uuid", msg.SubmissionUUID).Logger()
	log.Info().Str("object", msg.OriginalFilePathOSS).Msg("开始提取简历文本")

	if err := w.storage.MySQL.UpdateResumeProcessingStatus(ctx, msg.SubmissionUUID, constants.StatusParsing); err != nil {
		log.Error().Err(err).Msg("更新处理状态失败")
		return false
	}

	data, err := w.storage.MinIO.GetResumeFile(ctx, msg.OriginalFilePathOSS)
	if err != nil {
		log.Error().Err(err).Msg("下载原始简历失败")
		return false
	}

	ext := strings.ToLower(filepath.Ext(msg.OriginalFilePathOSS))
	text, extractErr := w.extractText(ctx, ext, data, msg.OriginalFilePathOSS)
	if extractErr != nil {
		log.Error().Err(extractErr).Str("ext", ext).Msg("提取简历文本失败")
		w.markFailed(ctx, msg.SubmissionUUID)
		return true
	}
	if strings.TrimSpace(text) == "" {
		log.Warn().Msg("提取结果为空文本")
		w.markFailed(ctx, msg.SubmissionUUID)
		return true
	}
	log.Debug().Str("text_preview", tracing.SafeResumeContent(text)).Msg("简历文本提取成功")

	textMD5 := md5Hex(text)

	// 文本级去重：同一份内容换个文件再传也能识别出来
	if w.storage.Redis != nil {
		exists, derr := w.storage.Redis.CheckParsedTextMD5Exists(ctx, textMD5)
		if derr != nil {
			log.Warn().Err(derr).Msg("查询文本MD5去重集合失败，按非重复继续")
		} else if exists {
			log.Info().Str("text_md5", textMD5).Msg("提取文本与已有简历重复")
			if err := w.storage.MySQL.UpdateParsedArtifacts(ctx, msg.SubmissionUUID, "", textMD5, nil, constants.StatusDuplicateParsed); err != nil {
				log.Error().Err(err).Msg("写回重复状态失败")
				return false
			}
			return true
		}
	}

	parsedPath, err := w.storage.MinIO.UploadParsedText(ctx, msg.SubmissionUUID, text)
	if err != nil {
		log.Error().Err(err).Msg("上传提取文本失败")
		return false
	}

	basicsJSON := w.storeStructuredResume(ctx, &msg, ext, data, log)

	if err := w.storage.MySQL.UpdateParsedArtifacts(ctx, msg.SubmissionUUID, parsedPath, textMD5, basicsJSON, constants.StatusParsed); err != nil {
		log.Error().Err(err).Msg("写回提取产物失败")
		return false
	}

	if w.storage.Redis != nil {
		if err := w.storage.Redis.AddParsedTextMD5(ctx, textMD5); err != nil {
			log.Warn().Err(err).Msg("记录文本MD5失败")
		}
	}

	w.publishParsedEvent(ctx, &msg, parsedPath, log)

	log.Info().Str("parsed_path", parsedPath).Int("chars", len(text)).Msg("简历文本提取完成")
	return true
}

// extractText 按扩展名选择提取方式
func (w *ExtractionWorker) extractText(ctx context.Context, ext string, data []byte, uri string) (string, error) {
	switch ext {
	case ".pdf":
		text, _, err := w.extractor.ExtractTextFromBytes(ctx, data, uri, nil)
		return text, err
	case ".txt", ".json":
		return string(data), nil
	default:
		return "", fmt.Errorf("不支持的简历文件类型: %s", ext)
	}
}

// storeStructuredResume JSON简历额外保存结构化副本，供评分接口直接读取
func (w *ExtractionWorker) storeStructuredResume(ctx context.Context, msg *storage.ResumeUploadMessage, ext string, data []byte, log zerolog.Logger) datatypes.JSON {
	if ext != ".json" {
		return nil
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		log.Warn().Err(err).Msg("JSON简历不是合法对象，跳过结构化存储")
		return nil
	}
	if _, err := w.storage.MinIO.UploadParsedJSON(ctx, msg.SubmissionUUID, data); err != nil {
		log.Warn().Err(err).Msg("上传结构化简历JSON失败")
	}
	return datatypes.JSON(data)
}

// publishParsedEvent 发布提取完成事件，失败只告警不影响主流程
func (w *ExtractionWorker) publishParsedEvent(ctx context.Context, msg *storage.ResumeUploadMessage, parsedPath string, log zerolog.Logger) {
	if w.storage.RabbitMQ == nil {
		return
	}
	event := storage.ResumeParsedMessage{
		SubmissionUUID:    msg.SubmissionUUID,
		TargetJobID:       msg.TargetJobID,
		ParsedTextPathOSS: parsedPath,
		ProcessingStatus:  constants.StatusParsed,
		ProcessingTime:    time.Now().Unix(),
	}
	err := w.storage.RabbitMQ.PublishJSON(ctx,
		w.cfg.RabbitMQ.ResumeEventsExchange,
		w.cfg.RabbitMQ.ParsedRoutingKey,
		event, true)
	if err != nil {
		log.Warn().Err(err).Msg("发布提取完成事件失败")
	}
}

func (w *ExtractionWorker) markFailed(ctx context.Context, submissionUUID string) {
	if err := w.storage.MySQL.UpdateResumeProcessingStatus(ctx, submissionUUID, constants.StatusParseFailed); err != nil {
		logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("写回失败状态失败")
	}
}

func md5Hex(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
