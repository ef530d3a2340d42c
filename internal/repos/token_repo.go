package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Keys used in the persisted token store.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// TokenRepo is the persistent key-value store for bearer tokens, scoped to
// this client installation.
type TokenRepo struct{ DB *sqlx.DB }

func NewTokenRepo(db *sqlx.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Get returns the stored value for key, or "" when absent.
func (r *TokenRepo) Get(key string) (string, error) {
	var v string
	err := r.DB.Get(&v, `SELECT value FROM tokens WHERE key=?`, key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *TokenRepo) Set(key, value string) error {
	_, err := r.DB.Exec(`
		INSERT INTO tokens(key,value,updated_at) VALUES(?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP
	`, key, value)
	return err
}

func (r *TokenRepo) Delete(key string) error {
	_, err := r.DB.Exec(`DELETE FROM tokens WHERE key=?`, key)
	return err
}
