package bdkeeper

import (
	"context"
	"fmt"

	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/storage"
	"go.uber.org/zap"
)

func (kp *BDKeeper) LoadAuthSessions() (storage.StorageAuthSessions, error) {
	ctx := context.Background()

	query := `
	SELECT
		token,
		employee_id,
		is_remember_me,
		expires_at,
		created_at,
		last_accessed_at
	FROM
		sessions`

	rows, err := kp.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load auth sessions: %w", err)
	}
	defer rows.Close()

	data := make(storage.StorageAuthSessions)

	for rows.Next() {
		var m models.AuthSession

		err := rows.Scan(
			&m.Token,
			&m.EmployeeID,
			&m.RememberMe,
			&m.ExpiresAt,
			&m.CreatedAt,
			&m.LastAccessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load auth sessions: %w", err)
		}

		data[m.Token] = m
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load auth sessions: %w", err)
	}

	return data, nil
}

func (kp *BDKeeper) SaveAuthSession(m models.AuthSession) error {
	query := `
		INSERT INTO sessions (
			token, employee_id, is_remember_me, expires_at, created_at, last_accessed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)`

	_, err := kp.conn.Exec(
		query,
		m.Token,
		m.EmployeeID,
		m.RememberMe,
		m.ExpiresAt,
		m.CreatedAt,
		m.LastAccessedAt,
	)
	if err != nil {
		kp.log.Info("error saving auth session to database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) UpdateAuthSession(m models.AuthSession) error {
	query := `
		UPDATE sessions SET
			last_accessed_at = $2
		WHERE token = $1`

	_, err := kp.conn.Exec(query, m.Token, m.LastAccessedAt)
	if err != nil {
		kp.log.Info("error updating auth session in database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) DeleteAuthSession(token string) error {
	_, err := kp.conn.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		kp.log.Info("error deleting auth session from database: ", zap.Error(err))
		return err
	}

	return nil
}
