package bdkeeper

import (
	"context"
	"fmt"

	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/storage"
	"go.uber.org/zap"
)

func (kp *BDKeeper) LoadFiles() (storage.StorageFiles, error) {
	ctx := context.Background()

	query := `
	SELECT
		id,
		file_name,
		original_name,
		category,
		mime_type,
		size,
		uploaded_by,
		uploaded_by_name,
		uploaded_by_type,
		related_work_session_id,
		related_employee_id,
		file_path,
		description,
		status,
		upload_date
	FROM
		files`

	rows, err := kp.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	defer rows.Close()

	data := make(storage.StorageFiles)

	for rows.Next() {
		var m models.FileRecord

		err := rows.Scan(
			&m.ID,
			&m.FileName,
			&m.OriginalName,
			&m.Category,
			&m.MimeType,
			&m.Size,
			&m.UploadedBy,
			&m.UploadedByName,
			&m.UploadedByType,
			&m.RelatedWorkSessionID,
			&m.RelatedEmployeeID,
			&m.FilePath,
			&m.Description,
			&m.Status,
			&m.UploadDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load files: %w", err)
		}

		data[m.ID] = m
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}

	return data, nil
}

func (kp *BDKeeper) SaveFile(m models.FileRecord) error {
	query := `
		INSERT INTO files (
			id, file_name, original_name, category, mime_type, size,
			uploaded_by, uploaded_by_name, uploaded_by_type,
			related_work_session_id, related_employee_id,
			file_path, description, status, upload_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)`

	_, err := kp.conn.Exec(
		query,
		m.ID,
		m.FileName,
		m.OriginalName,
		m.Category,
		m.MimeType,
		m.Size,
		m.UploadedBy,
		m.UploadedByName,
		m.UploadedByType,
		m.RelatedWorkSessionID,
		m.RelatedEmployeeID,
		m.FilePath,
		m.Description,
		m.Status,
		m.UploadDate,
	)
	if err != nil {
		kp.log.Info("error saving file record to database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) UpdateFile(m models.FileRecord) error {
	query := `
		UPDATE files SET
			category = $2,
			description = $3,
			status = $4,
			related_work_session_id = $5,
			related_employee_id = $6
		WHERE id = $1`

	_, err := kp.conn.Exec(
		query,
		m.ID,
		m.Category,
		m.Description,
		m.Status,
		m.RelatedWorkSessionID,
		m.RelatedEmployeeID,
	)
	if err != nil {
		kp.log.Info("error updating file record in database: ", zap.Error(err))
		return err
	}

	return nil
}
