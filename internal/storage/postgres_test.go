package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresDBWithConn_PingAndClose(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	// gorm.Open 會先 ping 一次
	mock.ExpectPing()
	db, err := NewPostgresDBWithConn(conn, zerolog.Nop())
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, db.Close())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormWriter_LevelFromMessage(t *testing.T) {
	testCases := map[string]struct {
		format   string
		args     []interface{}
		level    string
		contains string
	}{
		"failed query": {
			format:   "%s %s\n[%.3fms] [rows:%v] %s",
			args:     []interface{}{"necklace_repository.go:51", errors.New(`relation "necklaces" does not exist`), 1.5, 0, `SELECT * FROM "necklaces"`},
			level:    "error",
			contains: "does not exist",
		},
		"error": {
			format:   "%s\n[error] %v",
			args:     []interface{}{"postgres.go:45", "failed to initialize database"},
			level:    "error",
			contains: "failed to initialize database",
		},
		"slow sql": {
			format:   "%s %s\n[%.3fms] [rows:%v] %s",
			args:     []interface{}{"necklace_repository.go:51", "SLOW SQL >= 200ms", 350.2, 3, `SELECT * FROM "pearls"`},
			level:    "warn",
			contains: "SLOW SQL",
		},
		"info": {
			format:   "%s\n[info] %v",
			args:     []interface{}{"callbacks.go:12", "replacing callback"},
			level:    "info",
			contains: "replacing callback",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			w := gormWriter{log: zerolog.New(&buf)}

			w.Printf(tc.format, tc.args...)

			assert.Contains(t, buf.String(), `"level":"`+tc.level+`"`)
			assert.Contains(t, buf.String(), tc.contains)
		})
	}
}
