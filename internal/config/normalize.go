package config

import (
	"cmp"
	"maps"
	"strings"
)

// trim trims each field in place.
func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func normalizeDatabaseConfig(cfg DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	trim(&cfg.Driver, &cfg.DSN, &cfg.Host, &cfg.User, &cfg.Password, &cfg.Name, &cfg.Charset, &cfg.Loc, &cfg.Path)
	cfg.Driver = strings.ToLower(cfg.Driver)
	if cfg.Driver == "sqlite3" {
		cfg.Driver = DriverSQLite
	}
	cfg.Driver = cmp.Or(cfg.Driver, defaultDBDriver)
	cfg.Host = cmp.Or(cfg.Host, defaultDBHost)
	cfg.Port = cmp.Or(cfg.Port, defaultDBPort)
	cfg.User = cmp.Or(cfg.User, defaultDBUser)
	cfg.Password = cmp.Or(cfg.Password, defaultDBPassword)
	cfg.Name = cmp.Or(cfg.Name, defaultDBName)
	cfg.Charset = cmp.Or(cfg.Charset, defaultDBCharset)
	cfg.Loc = cmp.Or(cfg.Loc, defaultDBLoc)
	cfg.Path = cmp.Or(cfg.Path, defaultSQLitePath)
	cfg.Params = maps.Clone(cfg.Params)
	return cfg
}

func normalizeRedisConfig(cfg RedisRuntimeConfig) RedisRuntimeConfig {
	trim(&cfg.Host, &cfg.Username, &cfg.Password)
	cfg.URL = normalizeRedisRawURL(cfg.URL)
	if cfg.URL == "" {
		cfg.Host = cmp.Or(cfg.Host, defaultRedisHost)
	}
	cfg.Port = cmp.Or(cfg.Port, defaultRedisPort)
	return cfg
}

// normalizeRedisRawURL accepts host:port/db shorthand.
func normalizeRedisRawURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" || strings.HasPrefix(u, "redis://") || strings.HasPrefix(u, "rediss://") {
		return u
	}
	return "redis://" + u
}

func normalizeStorageConfig(cfg StorageConfig) StorageConfig {
	trim(&cfg.Driver, &cfg.StaticDir, &cfg.PublicBaseURL)
	cfg.Driver = cmp.Or(strings.ToLower(cfg.Driver), defaultStorageDriver)
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.MaxSizeMB = cmp.Or(cfg.MaxSizeMB, defaultStorageMaxMB)

	s3 := &cfg.S3
	trim(&s3.Region, &s3.Endpoint, &s3.Bucket, &s3.AccessKeyID, &s3.SecretAccessKey, &s3.CustomDomain, &s3.Prefix)
	s3.Region = cmp.Or(s3.Region, defaultS3Region)
	s3.Endpoint = strings.TrimRight(s3.Endpoint, "/")
	s3.CustomDomain = strings.TrimRight(s3.CustomDomain, "/")
	s3.Prefix = cmp.Or(strings.Trim(s3.Prefix, "/"), defaultS3Prefix)
	return cfg
}

func normalizeClientConfig(cfg ClientConfig) ClientConfig {
	trim(&cfg.BaseURL, &cfg.Token, &cfg.AuthorID, &cfg.UserName)
	cfg.BaseURL = cmp.Or(strings.TrimRight(cfg.BaseURL, "/"), defaultClientBaseURL)
	if cfg.TimeoutMS <= 0 {
		cfg.TimeoutMS = defaultClientTimeoutMS
	}
	return cfg
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	return cmp.Or(strings.ToLower(strings.TrimSpace(env)), defaultEnv)
}
