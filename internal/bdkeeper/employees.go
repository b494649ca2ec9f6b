package bdkeeper

import (
	"context"
	"fmt"

	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/storage"
	"go.uber.org/zap"
)

func (kp *BDKeeper) LoadEmployees() (storage.StorageEmployees, error) {
	ctx := context.Background()

	query := `
	SELECT
		id,
		name,
		email,
		password_hash,
		role,
		status,
		department,
		hire_date,
		created_at
	FROM
		employees`

	rows, err := kp.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	defer rows.Close()

	data := make(storage.StorageEmployees)

	for rows.Next() {
		var m models.Employee

		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Email,
			&m.Hash,
			&m.Role,
			&m.Status,
			&m.Department,
			&m.HireDate,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load employees: %w", err)
		}

		data[m.ID] = m
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	return data, nil
}

func (kp *BDKeeper) SaveEmployee(m models.Employee) error {
	query := `
		INSERT INTO employees (
			id, name, email, password_hash, role, status, department, hire_date, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	_, err := kp.conn.Exec(
		query,
		m.ID,
		m.Name,
		m.Email,
		m.Hash,
		m.Role,
		m.Status,
		m.Department,
		m.HireDate,
		m.CreatedAt,
	)
	if err != nil {
		kp.log.Info("error saving employee to database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) UpdateEmployee(m models.Employee) error {
	query := `
		UPDATE employees SET
			name = $2,
			email = $3,
			password_hash = $4,
			role = $5,
			status = $6,
			department = $7,
			hire_date = $8
		WHERE id = $1`

	_, err := kp.conn.Exec(
		query,
		m.ID,
		m.Name,
		m.Email,
		m.Hash,
		m.Role,
		m.Status,
		m.Department,
		m.HireDate,
	)
	if err != nil {
		kp.log.Info("error updating employee in database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) DeleteEmployee(id string) error {
	_, err := kp.conn.Exec(`DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		kp.log.Info("error deleting employee from database: ", zap.Error(err))
		return err
	}

	return nil
}
