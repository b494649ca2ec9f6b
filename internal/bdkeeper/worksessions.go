package bdkeeper

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/storage"
	"go.uber.org/zap"
)

func (kp *BDKeeper) LoadWorkSessions() (storage.StorageWorkSessions, error) {
	ctx := context.Background()

	query := `
	SELECT
		id,
		employee_id,
		employee_name,
		start_time,
		end_time,
		status,
		start_location,
		end_location,
		vehicle_id,
		vehicle_name,
		vehicle_plate,
		kilometers,
		work_description,
		final_work_description,
		total_hours,
		breaks,
		screenshots,
		location_history
	FROM
		work_sessions`

	rows, err := kp.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load work sessions: %w", err)
	}
	defer rows.Close()

	data := make(storage.StorageWorkSessions)

	for rows.Next() {
		var (
			m             models.WorkSession
			endTime       sql.NullTime
			startLocation []byte
			endLocation   []byte
			breaks        []byte
			screenshots   []byte
			history       []byte
		)

		err := rows.Scan(
			&m.ID,
			&m.EmployeeID,
			&m.EmployeeName,
			&m.StartTime,
			&endTime,
			&m.Status,
			&startLocation,
			&endLocation,
			&m.VehicleID,
			&m.VehicleName,
			&m.VehiclePlate,
			&m.Kilometers,
			&m.WorkDescription,
			&m.FinalWorkDescription,
			&m.TotalHours,
			&breaks,
			&screenshots,
			&history,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load work sessions: %w", err)
		}

		if endTime.Valid {
			t := endTime.Time
			m.EndTime = &t
		}
		if err := unmarshalJSON(startLocation, &m.StartLocation); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(endLocation, &m.EndLocation); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(breaks, &m.Breaks); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(screenshots, &m.Screenshots); err != nil {
			return nil, err
		}
		if err := unmarshalJSON(history, &m.LocationHistory); err != nil {
			return nil, err
		}

		data[m.ID] = m
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load work sessions: %w", err)
	}

	return data, nil
}

// sessionColumns marshals the JSONB columns of a session.
func sessionColumns(m models.WorkSession) (startLoc, endLoc, breaks, screenshots, history []byte, err error) {
	if startLoc, err = marshalJSON(m.StartLocation); err != nil {
		return
	}
	if endLoc, err = marshalJSON(m.EndLocation); err != nil {
		return
	}
	if breaks, err = marshalJSON(m.Breaks); err != nil {
		return
	}
	if screenshots, err = marshalJSON(m.Screenshots); err != nil {
		return
	}
	history, err = marshalJSON(m.LocationHistory)
	return
}

func (kp *BDKeeper) SaveWorkSession(m models.WorkSession) error {
	startLoc, endLoc, breaks, screenshots, history, err := sessionColumns(m)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO work_sessions (
			id, employee_id, employee_name, start_time, end_time, status,
			start_location, end_location, vehicle_id, vehicle_name, vehicle_plate,
			kilometers, work_description, final_work_description, total_hours,
			breaks, screenshots, location_history
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)`

	_, err = kp.conn.Exec(
		query,
		m.ID,
		m.EmployeeID,
		m.EmployeeName,
		m.StartTime,
		nullTime(m.EndTime),
		m.Status,
		startLoc,
		endLoc,
		m.VehicleID,
		m.VehicleName,
		m.VehiclePlate,
		m.Kilometers,
		m.WorkDescription,
		m.FinalWorkDescription,
		m.TotalHours,
		breaks,
		screenshots,
		history,
	)
	if err != nil {
		kp.log.Info("error saving work session to database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) UpdateWorkSession(m models.WorkSession) error {
	startLoc, endLoc, breaks, screenshots, history, err := sessionColumns(m)
	if err != nil {
		return err
	}

	query := `
		UPDATE work_sessions SET
			end_time = $2,
			status = $3,
			start_location = $4,
			end_location = $5,
			kilometers = $6,
			work_description = $7,
			final_work_description = $8,
			total_hours = $9,
			breaks = $10,
			screenshots = $11,
			location_history = $12
		WHERE id = $1`

	_, err = kp.conn.Exec(
		query,
		m.ID,
		nullTime(m.EndTime),
		m.Status,
		startLoc,
		endLoc,
		m.Kilometers,
		m.WorkDescription,
		m.FinalWorkDescription,
		m.TotalHours,
		breaks,
		screenshots,
		history,
	)
	if err != nil {
		kp.log.Info("error updating work session in database: ", zap.Error(err))
		return err
	}

	return nil
}

func (kp *BDKeeper) DeleteWorkSession(id string) error {
	_, err := kp.conn.Exec(`DELETE FROM work_sessions WHERE id = $1`, id)
	if err != nil {
		kp.log.Info("error deleting work session from database: ", zap.Error(err))
		return err
	}

	return nil
}
