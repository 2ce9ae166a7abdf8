package configuration

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Database points at the robot's backing store, either a local sqlite
// file or a remote libsql instance when `url` is set.
type Database struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Database) OpenDB() (*sql.DB, error) {
	if config.Url == "" {
		return sql.Open("sqlite", fmt.Sprintf("file:%s", config.File))
	}

	remote, err := url.Parse(config.Url)
	if err != nil {
		return nil, err
	}
	if config.AuthToken != "" {
		query := remote.Query()
		query.Set("authToken", config.AuthToken)
		remote.RawQuery = query.Encode()
	}
	return sql.Open("libsql", remote.String())
}
