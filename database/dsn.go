package database

import (
	"fmt"
	"net/url"
	"strings"
)

const jdbcPrefix = "jdbc:"

// DSN translates rawURL into the data source name driver expects, merging in
// user and password when the URL does not carry them.
func DSN(driver, rawURL, user, password string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", configError("db.url is required", nil)
	}
	rawURL = strings.TrimPrefix(rawURL, jdbcPrefix)

	switch driver {
	case DriverSQLite:
		return sqliteDSN(rawURL), nil
	case DriverPostgres, DriverPgx:
		return postgresDSN(rawURL, user, password)
	default:
		return "", configError(fmt.Sprintf("unsupported driver %q", driver), nil)
	}
}

func sqliteDSN(raw string) string {
	raw = strings.TrimPrefix(raw, "sqlite:")
	raw = strings.TrimPrefix(raw, "sqlite3:")
	if raw == "" || raw == ":memory:" {
		return "file::memory:?cache=shared"
	}
	return raw
}

func postgresDSN(raw, user, password string) (string, error) {
	if strings.HasPrefix(raw, "postgresql://") {
		raw = "postgres://" + strings.TrimPrefix(raw, "postgresql://")
	}
	if !strings.HasPrefix(raw, "postgres://") {
		// Keyword/value strings are passed through untouched.
		if strings.Contains(raw, "=") {
			return raw, nil
		}
		return "", configError(fmt.Sprintf("unrecognized postgres url %q", raw), nil)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", configError("malformed db.url", err)
	}

	q := u.Query()
	// JDBC carries credentials as query parameters.
	if v := q.Get("user"); v != "" && user == "" {
		user = v
	}
	if v := q.Get("password"); v != "" && password == "" {
		password = v
	}
	q.Del("user")
	q.Del("password")

	if u.User == nil && user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
