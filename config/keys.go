package config

// Dotted key constants, one per tunable. Environment overrides use the
// same path with underscores: MIRROR_FLUSH_DELAY -> mirror.flush_delay.
const (
	delimiter = "."

	resourcePrefix        = "resource"
	KeyResourceDebounce   = resourcePrefix + delimiter + "debounce"
	KeyResourceBufferSize = resourcePrefix + delimiter + "buffer_size"

	mirrorPrefix           = "mirror"
	KeyMirrorFlushDelay    = mirrorPrefix + delimiter + "flush_delay"
	KeyMirrorNumWorkers    = mirrorPrefix + delimiter + "num_workers"
	KeyMirrorBufferSize    = mirrorPrefix + delimiter + "buffer_size"
	KeyMirrorJournalBuffer = mirrorPrefix + delimiter + "journal_buffer"

	storePrefix        = "store"
	KeyStoreBackend    = storePrefix + delimiter + "backend"
	KeyStoreSQLitePath = storePrefix + delimiter + "sqlite_path"
	KeyStoreFileDir    = storePrefix + delimiter + "file_dir"

	redisPrefix      = storePrefix + delimiter + "redis"
	KeyRedisAddr     = redisPrefix + delimiter + "addr"
	KeyRedisPassword = redisPrefix + delimiter + "password"
	KeyRedisDB       = redisPrefix + delimiter + "db"

	guardPrefix        = "guard"
	KeyGuardBufferSize = guardPrefix + delimiter + "buffer_size"

	logPrefix    = "log"
	KeyLogLevel  = logPrefix + delimiter + "level"
	KeyLogFormat = logPrefix + delimiter + "format"
)
