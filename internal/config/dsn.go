package config

import (
	"cmp"
	"fmt"
	"net"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DSNValue returns what database.Connect expects for the configured driver:
// the sqlite file (or in-memory name) or a go-sql-driver/mysql DSN. An
// explicit dsn wins over the split fields.
func (c DatabaseRuntimeConfig) DSNValue() (string, error) {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v, nil
	}
	if c.Driver == DriverSQLite {
		if c.Path == ":memory:" || strings.HasPrefix(c.Path, "file:") {
			return c.Path, nil
		}
		return ResolveRuntimePath(c.Path, defaultSQLitePath), nil
	}

	loc, err := time.LoadLocation(c.Loc)
	if err != nil {
		return "", fmt.Errorf("invalid database.loc %q: %w", c.Loc, err)
	}
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Name
	mc.ParseTime = c.ParseTime
	mc.Loc = loc
	mc.Params = map[string]string{"charset": c.Charset}
	for k, v := range c.Params {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN(), nil
}

// URLValue returns a go-redis URL, built from the split fields when no url
// is set.
func (c RedisRuntimeConfig) URLValue() string {
	if u := normalizeRedisRawURL(c.URL); u != "" {
		return u
	}
	host := cmp.Or(strings.TrimSpace(c.Host), defaultRedisHost)
	port := c.Port
	if port == 0 {
		port = defaultRedisPort
	}
	u := &neturl.URL{
		Scheme: "redis",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + strconv.Itoa(max(c.DB, 0)),
	}
	if c.TLS {
		u.Scheme = "rediss"
	}
	switch user, pass := strings.TrimSpace(c.Username), strings.TrimSpace(c.Password); {
	case pass != "":
		u.User = neturl.UserPassword(user, pass)
	case user != "":
		u.User = neturl.User(user)
	}
	return u.String()
}
