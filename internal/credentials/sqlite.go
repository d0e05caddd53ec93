package credentials

import (
	"database/sql"
	"errors"

	"github.com/desertthunder/ytshuffle/internal/shared"
)

// SQLiteStore keeps secrets in the secrets table created by [shared.RunMigrations].
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(service, key string) (string, error) {
	var secret string
	err := s.db.QueryRow(
		"SELECT secret FROM secrets WHERE service = ? AND key = ?", service, key,
	).Scan(&secret)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", storeErr("get", service, key, err)
	}
	return secret, nil
}

func (s *SQLiteStore) Set(service, key, secret string) error {
	_, err := s.db.Exec(`
		INSERT INTO secrets (id, service, key, secret, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service, key) DO UPDATE SET
			secret = excluded.secret,
			updated_at = CURRENT_TIMESTAMP`,
		shared.GenerateID(), service, key, secret,
	)
	if err != nil {
		return storeErr("set", service, key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(service, key string) error {
	result, err := s.db.Exec("DELETE FROM secrets WHERE service = ? AND key = ?", service, key)
	if err != nil {
		return storeErr("delete", service, key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("delete", service, key, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
