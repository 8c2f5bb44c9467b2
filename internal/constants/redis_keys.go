package constants

// Redis Key 前缀和格式常量
// 统一命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// FileModulePrefix 文件模块
	FileModulePrefix = "file"
	// JobModulePrefix 岗位模块
	JobModulePrefix = "job"

	// EntityText 文本实体
	EntityText = "text"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityMD5ToUUID MD5到UUID的映射实体
	EntityMD5ToUUID = "md5_to_uuid"

	// KeyJobDescriptionText JD文本缓存 (STRING)
	// 格式: app:job:text:{jobID}
	KeyJobDescriptionText = AppPrefix + ":" + JobModulePrefix + ":" + EntityText + ":%s"

	// KeyFileMD5Set 文件MD5集合，用于快速去重 (SET)
	// 格式: app:file:dedup_set
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// KeyFileMD5ToSubmissionUUID MD5到SubmissionUUID的映射 (STRING)
	// 格式: app:file:md5_to_uuid:{md5}
	KeyFileMD5ToSubmissionUUID = AppPrefix + ":" + FileModulePrefix + ":" + EntityMD5ToUUID + ":%s"
)
