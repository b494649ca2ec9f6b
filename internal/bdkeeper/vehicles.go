package bdkeeper

import (
	"context"
	"fmt"

	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/storage"
	"go.uber.org/zap"
)

func (kp *BDKeeper) LoadVehicles() (storage.StorageVehicles, error) {
	ctx := context.Background()

	query := `
	SELECT
		id,
		name,
		license_plate,
		make,
		model,
		year,
		color,
		type,
		status
	FROM
		vehicles`

	rows, err := kp.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}
	defer rows.Close()

	data := make(storage.StorageVehicles)

	for rows.Next() {
		var m models.Vehicle

		err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.LicensePlate,
			&m.Make,
			&m.Model,
			&m.Year,
			&m.Color,
			&m.Type,
			&m.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load vehicles: %w", err)
		}

		data[m.ID] = m
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}

	return data, nil
}

func (kp *BDKeeper) SaveVehicle(m models.Vehicle) error {
	query := `
		INSERT INTO vehicles (
			id, name, license_plate, make, model, year, color, type, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	_, err := kp.conn.Exec(
		query,
		m.ID,
		m.Name,
		m.LicensePlate,
		m.Make,
		m.Model,
		m.Year,
		m.Color,
		m.Type,
		m.Status,
	)
	if err != nil {
		kp.log.Info("error saving vehicle to database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) UpdateVehicle(m models.Vehicle) error {
	query := `
		UPDATE vehicles SET
			name = $2,
			license_plate = $3,
			make = $4,
			model = $5,
			year = $6,
			color = $7,
			type = $8,
			status = $9
		WHERE id = $1`

	_, err := kp.conn.Exec(
		query,
		m.ID,
		m.Name,
		m.LicensePlate,
		m.Make,
		m.Model,
		m.Year,
		m.Color,
		m.Type,
		m.Status,
	)
	if err != nil {
		kp.log.Info("error updating vehicle in database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) DeleteVehicle(id string) error {
	_, err := kp.conn.Exec(`DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		kp.log.Info("error deleting vehicle from database: ", zap.Error(err))
		return err
	}

	return nil
}
