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

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

const doctorColumns = `
	d.id, d.user_id, d.status, d.mobile, d.address, d.department,
	d.profile_pic, d.created_at, d.updated_at,
	u.email, u.first_name, u.last_name
`

func (r *doctorRepository) CreateWithUser(ctx context.Context, user *model.User, doctor *model.Doctor) error {
	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	doctor.CreatedAt, doctor.UpdatedAt = now, now
	doctor.UserID = user.ID

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

		doctorQuery := `
			INSERT INTO doctors (id, user_id, status, mobile, address, department, profile_pic, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		if _, err := tx.ExecContext(ctx, doctorQuery,
			doctor.ID, doctor.UserID, doctor.Status, doctor.Mobile,
			doctor.Address, doctor.Department, doctor.ProfilePic,
			doctor.CreatedAt, doctor.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create doctor: %w", err)
		}
		return nil
	})
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.user_id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor by user: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		doctorQuery := `
			UPDATE doctors SET mobile = $1, address = $2, department = $3, updated_at = $4
			WHERE id = $5
		`
		result, err := tx.ExecContext(ctx, doctorQuery,
			doctor.Mobile, doctor.Address, doctor.Department, time.Now(), doctor.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update doctor: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("doctor", nil)
		}

		userQuery := `
			UPDATE users SET email = $1, first_name = $2, last_name = $3, updated_at = $4
			WHERE id = $5
		`
		if _, err := tx.ExecContext(ctx, userQuery,
			doctor.Email, doctor.FirstName, doctor.LastName, time.Now(), doctor.UserID,
		); err != nil {
			return fmt.Errorf("failed to update doctor user: %w", err)
		}
		return nil
	})
}

func (r *doctorRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	query := `UPDATE doctors SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update doctor status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) UpdateProfilePic(ctx context.Context, id uuid.UUID, path string) error {
	query := `UPDATE doctors SET profile_pic = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, path, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile pic: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) DeleteWithUser(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var userID uuid.UUID
		if err := tx.GetContext(ctx, &userID, `SELECT user_id FROM doctors WHERE id = $1`, id); err != nil {
			if err == sql.ErrNoRows {
				return apperrors.NotFound("doctor", err)
			}
			return fmt.Errorf("failed to resolve doctor user: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete doctor: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("failed to delete doctor user: %w", err)
		}
		return nil
	})
}

func (r *doctorRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE 1=1
	`
	args := []interface{}{}

	if filters != nil {
		if filters.Status != "" {
			query += fmt.Sprintf(" AND d.status = $%d", len(args)+1)
			args = append(args, filters.Status)
		}
		if filters.Department != "" {
			query += fmt.Sprintf(" AND d.department = $%d", len(args)+1)
			args = append(args, filters.Department)
		}
		if filters.SearchTerm != "" {
			n := len(args) + 1
			query += fmt.Sprintf(" AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR d.department ILIKE $%d)", n, n, n)
			args = append(args, "%"+filters.SearchTerm+"%")
		}
	}

	query += " ORDER BY d.created_at DESC"

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Count(ctx context.Context, status model.ApprovalStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM doctors WHERE status = $1`, status); err != nil {
		return 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return count, nil
}
