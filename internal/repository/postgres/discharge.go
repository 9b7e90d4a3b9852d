package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
)

type dischargeRepository struct {
	BaseRepository
}

func NewDischargeRepository(base BaseRepository) repository.DischargeRepository {
	return &dischargeRepository{base}
}

func (r *dischargeRepository) Create(ctx context.Context, record *model.DischargeRecord) error {
	now := time.Now()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt, record.UpdatedAt = now, now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		insertQuery := `
			INSERT INTO discharge_records (
				id, patient_id, patient_name, assigned_doctor_name, address, mobile,
				symptoms, admit_date, release_date, day_spent, room_charge,
				doctor_fee, medicine_cost, other_charge, total, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
			)
		`
		if _, err := tx.ExecContext(ctx, insertQuery,
			record.ID, record.PatientID, record.PatientName, record.AssignedDoctorName,
			record.Address, record.Mobile, record.Symptoms, record.AdmitDate,
			record.ReleaseDate, record.DaySpent, record.RoomCharge, record.DoctorFee,
			record.MedicineCost, record.OtherCharge, record.Total,
			record.CreatedAt, record.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create discharge record: %w", err)
		}

		flipQuery := `UPDATE patients SET admission_status = $1, updated_at = $2 WHERE id = $3`
		result, err := tx.ExecContext(ctx, flipQuery, model.AdmissionStatusDischarged, now, record.PatientID)
		if err != nil {
			return fmt.Errorf("failed to mark patient discharged: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("patient", nil)
		}
		return nil
	})
}

func (r *dischargeRepository) GetLatest(ctx context.Context, patientID uuid.UUID) (*model.DischargeRecord, error) {
	query := `
		SELECT * FROM discharge_records
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var record model.DischargeRecord
	if err := r.db.GetContext(ctx, &record, query, patientID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("discharge record", err)
		}
		return nil, fmt.Errorf("failed to get latest discharge record: %w", err)
	}
	return &record, nil
}

func (r *dischargeRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DischargeRecord, error) {
	query := `
		SELECT * FROM discharge_records
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	var records []*model.DischargeRecord
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list discharge records: %w", err)
	}
	return records, nil
}
