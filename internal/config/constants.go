package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8080
	defaultEnv        = "development"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	StorageLocal = "local"
	StorageS3    = "s3"

	defaultDBDriver   = DriverMySQL
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "college_cms"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultSQLitePath = "data/cms.db"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultStorageDriver   = StorageLocal
	defaultStorageMaxMB    = 5
	defaultS3Region        = "us-east-1"
	defaultS3Prefix        = "banners"
	defaultClientBaseURL   = "http://localhost:8080/api/v1"
	defaultClientTimeoutMS = 15000
)
