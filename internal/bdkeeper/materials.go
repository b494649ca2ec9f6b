package bdkeeper

import (
	"context"
	"fmt"

	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/storage"
	"go.uber.org/zap"
)

func (kp *BDKeeper) LoadMaterials() (storage.StorageMaterials, error) {
	ctx := context.Background()

	query := `
	SELECT
		id,
		name,
		quantity,
		unit,
		price,
		project,
		worksite,
		purchase_date,
		supplier,
		receipt_file_id,
		description
	FROM
		materials`

	rows, err := kp.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}
	defer rows.Close()

	data := make(storage.StorageMaterials)

	for rows.Next() {
		var m models.Material

		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Quantity,
			&m.Unit,
			&m.Price,
			&m.Project,
			&m.Worksite,
			&m.PurchaseDate,
			&m.Supplier,
			&m.ReceiptFileID,
			&m.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load materials: %w", err)
		}

		data[m.ID] = m
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}

	return data, nil
}

func (kp *BDKeeper) SaveMaterial(m models.Material) error {
	query := `
		INSERT INTO materials (
			id, name, quantity, unit, price, project, worksite,
			purchase_date, supplier, receipt_file_id, description
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`

	_, err := kp.conn.Exec(
		query,
		m.ID,
		m.Name,
		m.Quantity,
		m.Unit,
		m.Price,
		m.Project,
		m.Worksite,
		m.PurchaseDate,
		m.Supplier,
		m.ReceiptFileID,
		m.Description,
	)
	if err != nil {
		kp.log.Info("error saving material to database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) UpdateMaterial(m models.Material) error {
	query := `
		UPDATE materials SET
			name = $2,
			quantity = $3,
			unit = $4,
			price = $5,
			project = $6,
			worksite = $7,
			purchase_date = $8,
			supplier = $9,
			receipt_file_id = $10,
			description = $11
		WHERE id = $1`

	_, err := kp.conn.Exec(
		query,
		m.ID,
		m.Name,
		m.Quantity,
		m.Unit,
		m.Price,
		m.Project,
		m.Worksite,
		m.PurchaseDate,
		m.Supplier,
		m.ReceiptFileID,
		m.Description,
	)
	if err != nil {
		kp.log.Info("error updating material in database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) DeleteMaterial(id string) error {
	_, err := kp.conn.Exec(`DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		kp.log.Info("error deleting material from database: ", zap.Error(err))
		return err
	}

	return nil
}
