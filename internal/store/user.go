package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"clinic-api/internal/model"
)

const userColumns = `id, email, password_hash, name, role, phone, address,
	specialization, clinic, experience_years, profile_fields, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var fields []byte
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Phone, &u.Address,
		&u.Specialization, &u.Clinic, &u.ExperienceYears, &fields, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if err := json.Unmarshal(fields, &u.ProfileFields); err != nil {
		return nil, fmt.Errorf("decode profile fields: %w", err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	fields, err := json.Marshal(u.ProfileFields)
	if err != nil {
		return err
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, phone, address,
		                    specialization, clinic, experience_years, profile_fields)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 RETURNING created_at, updated_at`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Phone, u.Address,
		u.Specialization, u.Clinic, u.ExperienceYears, fields,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// DoctorByID only matches users holding the doctor role.
func (s *Store) DoctorByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND role = 'doctor'`, id))
}

func (s *Store) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, phone, specialization, clinic, experience_years
		 FROM users WHERE role = 'doctor'
		 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Doctor{}
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Phone,
			&d.Specialization, &d.Clinic, &d.ExperienceYears); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateBasicInfo writes only the supplied attributes and returns the
// resulting record.
func (s *Store) UpdateBasicInfo(ctx context.Context, id string, info model.BasicInfo) (*model.User, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if info.Name != nil {
		set("name", *info.Name)
	}
	if info.Phone != nil {
		set("phone", *info.Phone)
	}
	if info.Address != nil {
		set("address", *info.Address)
	}
	if info.Specialization != nil {
		set("specialization", *info.Specialization)
	}
	if info.Clinic != nil {
		set("clinic", *info.Clinic)
	}
	if info.ExperienceYears != nil {
		set("experience_years", *info.ExperienceYears)
	}
	if len(sets) == 0 {
		return s.UserByID(ctx, id)
	}

	args = append(args, id)
	q := `UPDATE users SET ` + strings.Join(sets, ", ") + `, updated_at = NOW()
		 WHERE id = $` + strconv.Itoa(len(args)) + `
		 RETURNING ` + userColumns
	return scanUser(s.pool.QueryRow(ctx, q, args...))
}

// ModifyProfileFields locks the user row, hands the current field set to fn
// and persists whatever fn leaves behind. Nothing is written if fn fails.
func (s *Store) ModifyProfileFields(ctx context.Context, userID string, fn func(*model.ProfileFields) error) (model.ProfileFields, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.ProfileFields{}, err
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT profile_fields FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&raw)
	if err != nil {
		return model.ProfileFields{}, notFound(err)
	}

	var fields model.ProfileFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.ProfileFields{}, fmt.Errorf("decode profile fields: %w", err)
	}
	if err := fn(&fields); err != nil {
		return model.ProfileFields{}, err
	}

	raw, err = json.Marshal(fields)
	if err != nil {
		return model.ProfileFields{}, err
	}
	_, err = tx.Exec(ctx,
		`UPDATE users SET profile_fields = $1, updated_at = NOW() WHERE id = $2`,
		raw, userID,
	)
	if err != nil {
		return model.ProfileFields{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.ProfileFields{}, err
	}
	return fields, nil
}
