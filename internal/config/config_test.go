package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	assert := require.New(t)
	cfg, err := Parse(nil)
	assert.NoError(err)

	assert.Equal(8080, cfg.Port)
	assert.True(cfg.IsDev())
	dsn, err := mysql.ParseDSN(cfg.DSN)
	assert.NoError(err)
	assert.Equal("root", dsn.User)
	assert.Equal("password", dsn.Passwd)
	assert.Equal("127.0.0.1:3306", dsn.Addr)
	assert.Equal("college_cms", dsn.DBName)
	assert.True(dsn.ParseTime)
	assert.Equal(time.Local, dsn.Loc)
	assert.Equal("utf8mb4", dsn.Params["charset"])
	assert.Equal("redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(StorageLocal, cfg.Storage.Driver)
	assert.Equal("banners", cfg.Storage.S3.Prefix)
	assert.Equal("info", cfg.Log.Level)
	assert.Equal(15*time.Second, cfg.Client.Timeout())
}

func TestParseNormalises(t *testing.T) {
	assert := require.New(t)
	t.Setenv(EnvHome, "/srv/cms")
	cfg, err := Parse([]byte(`
env: Production
database:
  driver: sqlite3
  path: data/test.db
redis:
  url: cache.internal:6380/2
storage:
  static_dir: uploads
  public_base_url: https://cdn.example.edu/
client:
  base_url: http://api.example.edu/api/v1/
log:
  level: DEBUG
  dir: logs
`))
	assert.NoError(err)
	assert.False(cfg.IsDev())
	assert.Equal(DriverSQLite, cfg.Database.Driver)
	assert.Equal(filepath.Join("/srv/cms", "data/test.db"), cfg.DSN)
	assert.Equal("redis://cache.internal:6380/2", cfg.RedisURL)
	assert.Equal(filepath.Join("/srv/cms", "uploads"), cfg.StaticDir())
	assert.Equal("https://cdn.example.edu", cfg.Storage.PublicBaseURL)
	assert.Equal("http://api.example.edu/api/v1", cfg.Client.BaseURL)
	assert.Equal("debug", cfg.Log.Level)
	assert.Equal(filepath.Join("/srv/cms", "logs"), cfg.Log.Dir)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "colour: red\n",
		"bad port":       "port: 70000\n",
		"bad driver":     "database:\n  driver: postgres\n",
		"s3 no bucket":   "storage:\n  driver: s3\n",
		"bad storage":    "storage:\n  driver: ftp\n",
		"negative redis": "redis:\n  db: -1\n",
		"bad timezone":   "timezone: Somewhere/Else\n",
		"bad loc":        "database:\n  loc: Mars/Olympus\n",
	}
	for name, yml := range cases {
		_, err := Parse([]byte(yml))
		require.Error(t, err, name)
	}
}

func TestResolveRuntimePath(t *testing.T) {
	assert := require.New(t)
	t.Setenv(EnvHome, "/opt/cms")
	assert.Equal(":memory:", ResolveRuntimePath(":memory:", "x"))
	assert.Equal("file:a?mode=memory", ResolveRuntimePath("file:a?mode=memory", ""))
	assert.Equal("/var/data", ResolveRuntimePath("/var/data/", ""))
	assert.Equal("/opt/cms/static", ResolveRuntimePath("", "static"))
}

func TestLoadOptional(t *testing.T) {
	assert := require.New(t)
	dir := t.TempDir()

	cfg, err := LoadOptional(filepath.Join(dir, "missing.yml"))
	assert.NoError(err)
	assert.Equal(8080, cfg.Port)

	path := filepath.Join(dir, "config.yml")
	assert.NoError(os.WriteFile(path, []byte("port: 9090\nclient:\n  token: abc\n"), 0o644))
	cfg, err = LoadOptional(path)
	assert.NoError(err)
	assert.Equal(9090, cfg.Port)
	assert.Equal("abc", cfg.Client.Token)

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.Error(err)
}

func TestRedisURLFromFields(t *testing.T) {
	assert := require.New(t)
	cfg, err := Parse([]byte("redis:\n  host: cache\n  port: 6390\n  db: 3\n  password: s3cret\n  tls: true\n"))
	assert.NoError(err)
	assert.Equal("rediss://:s3cret@cache:6390/3", cfg.RedisURL)
}

func TestLocation(t *testing.T) {
	assert := require.New(t)
	cfg := Default()

	loc, err := cfg.Location()
	assert.NoError(err)
	assert.Nil(loc)

	cfg.Timezone = "+05:30"
	loc, err = cfg.Location()
	assert.NoError(err)
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(5*3600+30*60, offset)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	assert.NoError(err)
	assert.Equal("UTC", loc.String())
}
