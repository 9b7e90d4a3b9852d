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

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

const patientColumns = `
	p.id, p.user_id, p.status, p.admission_status, p.mobile, p.address,
	p.symptoms, p.admit_date, p.assigned_doctor_id, p.profile_pic,
	p.created_at, p.updated_at,
	u.email, u.first_name, u.last_name
`

func (r *patientRepository) CreateWithUser(ctx context.Context, user *model.User, patient *model.Patient) error {
	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	patient.CreatedAt, patient.UpdatedAt = now, now
	patient.UserID = user.ID

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		userQuery := `
			INSERT INTO users (id, email, password_hash, first_name, last_name, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		if _, err := tx.ExecContext(ctx, userQuery,
			user.ID, user.Email, user.PasswordHash, user.FirstName,
			user.LastName, user.Role, user.CreatedAt, user.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		patientQuery := `
			INSERT INTO patients (
				id, user_id, status, admission_status, mobile, address, symptoms,
				admit_date, assigned_doctor_id, profile_pic, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		if _, err := tx.ExecContext(ctx, patientQuery,
			patient.ID, patient.UserID, patient.Status, patient.Admission,
			patient.Mobile, patient.Address, patient.Symptoms, patient.AdmitDate,
			patient.AssignedDoctorID, patient.ProfilePic,
			patient.CreatedAt, patient.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create patient: %w", err)
		}
		return nil
	})
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient by user: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		patientQuery := `
			UPDATE patients SET
				mobile = $1, address = $2, symptoms = $3, assigned_doctor_id = $4, updated_at = $5
			WHERE id = $6
		`
		result, err := tx.ExecContext(ctx, patientQuery,
			patient.Mobile, patient.Address, patient.Symptoms,
			patient.AssignedDoctorID, time.Now(), patient.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update patient: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("patient", nil)
		}

		userQuery := `
			UPDATE users SET email = $1, first_name = $2, last_name = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, userQuery,
			patient.Email, patient.FirstName, patient.LastName, time.Now(), patient.UserID,
		); err != nil {
			return fmt.Errorf("failed to update patient user: %w", err)
		}
		return nil
	})
}

func (r *patientRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	query := `UPDATE patients SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update patient status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) UpdateProfilePic(ctx context.Context, id uuid.UUID, path string) error {
	query := `UPDATE patients SET profile_pic = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, path, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update patient profile pic: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) DeleteWithUser(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var userID uuid.UUID
		if err := tx.GetContext(ctx, &userID, `SELECT user_id FROM patients WHERE id = $1`, id); err != nil {
			if err == sql.ErrNoRows {
				return apperrors.NotFound("patient", err)
			}
			return fmt.Errorf("failed to resolve patient user: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("failed to delete patient user: %w", err)
		}
		return nil
	})
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients p
		JOIN users u ON u.id = p.user_id
		WHERE 1=1
	`
	args := []interface{}{}

	if filters != nil {
		if filters.Status != "" {
			query += fmt.Sprintf(" AND p.status = $%d", len(args)+1)
			args = append(args, filters.Status)
		}
		if filters.Admission != "" {
			query += fmt.Sprintf(" AND p.admission_status = $%d", len(args)+1)
			args = append(args, filters.Admission)
		}
		if filters.AssignedDoctorID != uuid.Nil {
			query += fmt.Sprintf(" AND p.assigned_doctor_id = $%d", len(args)+1)
			args = append(args, filters.AssignedDoctorID)
		}
		if filters.SearchTerm != "" {
			n := len(args) + 1
			query += fmt.Sprintf(" AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR p.symptoms ILIKE $%d)", n, n, n)
			args = append(args, "%"+filters.SearchTerm+"%")
		}
	}

	query += " ORDER BY p.created_at DESC"

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Count(ctx context.Context, status model.ApprovalStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM patients WHERE status = $1`, status); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

func (r *patientRepository) CountByDoctor(ctx context.Context, doctorUserID uuid.UUID, admission model.AdmissionStatus) (int, error) {
	query := `
		SELECT COUNT(*) FROM patients
		WHERE assigned_doctor_id = $1 AND admission_status = $2 AND status = $3
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, doctorUserID, admission, model.ApprovalStatusActive); err != nil {
		return 0, fmt.Errorf("failed to count patients by doctor: %w", err)
	}
	return count, nil
}
