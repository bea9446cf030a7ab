package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pharmvigil/medreport-be/internal/models"
	"github.com/pharmvigil/medreport-be/internal/storage"
	"github.com/pharmvigil/medreport-be/internal/storage/postgres/migrations"
)

// Postgres error codes surfaced as storage sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Ensure Store satisfies the storage interfaces at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for users and reports.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database, applies migrations, and returns a ready Store.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := migrate(ctx, databaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// migrate runs the embedded goose migrations over a short-lived database/sql
// connection; the pgx pool handles everything else.
func migrate(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

const userColumns = `id, name, email, password_hash, role, created_at`

// CreateUser inserts a new user row. A duplicate email surfaces as
// storage.ErrDuplicateEmail via the unique index.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Role)
	created, err := scanUser(row)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return models.User{}, storage.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return created, nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// GetUserByEmail fetches a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// ListUsers returns every user, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser persists the full user record identified by user.ID.
func (s *Store) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, role = $5
		WHERE id = $1
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Role)
	updated, err := scanUser(row)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return models.User{}, storage.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return updated, nil
}

// DeleteUser removes a user; owned reports go with it via the FK cascade.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const reportColumns = `
	r.id, r.user_id, r.brand,
	r.patient_first_name, r.patient_last_name, r.patient_gender, r.patient_age,
	r.therapy_start_date, r.therapy_end_date,
	r.indication_common, r.indication_other,
	r.total_dosing_per_cycle, r.clinical_result,
	r.s_effects_mild, r.s_effects_mild_desc,
	r.s_effects_moderate, r.s_effects_moderate_desc,
	r.s_effects_severe, r.s_effects_severe_desc,
	r.md_name, r.md_clinic, r.md_phone, r.md_email,
	r.created_at, u.name, u.email`

// CreateReport inserts a report. A user_id that does not resolve surfaces as
// storage.ErrOwnerNotFound via the foreign key.
func (s *Store) CreateReport(ctx context.Context, report models.Report) (models.Report, error) {
	const query = `
		WITH inserted AS (
			INSERT INTO reports (
				id, user_id, brand,
				patient_first_name, patient_last_name, patient_gender, patient_age,
				therapy_start_date, therapy_end_date,
				indication_common, indication_other,
				total_dosing_per_cycle, clinical_result,
				s_effects_mild, s_effects_mild_desc,
				s_effects_moderate, s_effects_moderate_desc,
				s_effects_severe, s_effects_severe_desc,
				md_name, md_clinic, md_phone, md_email
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
				$14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
			RETURNING *
		)
		SELECT ` + reportColumns + `
		FROM inserted r
		JOIN users u ON u.id = r.user_id`
	row := s.pool.QueryRow(ctx, query, reportArgs(report)...)
	created, err := scanReport(row)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return models.Report{}, storage.ErrOwnerNotFound
		}
		return models.Report{}, err
	}
	return created, nil
}

// GetReport fetches the single report matching the filter, joined with its
// owner's name and email.
func (s *Store) GetReport(ctx context.Context, filter storage.ReportFilter) (models.Report, error) {
	where, args := reportWhere(filter)
	query := `SELECT ` + reportColumns + ` FROM reports r JOIN users u ON u.id = r.user_id` + where
	return scanReport(s.pool.QueryRow(ctx, query, args...))
}

// ListReports returns all reports matching the filter, newest first.
func (s *Store) ListReports(ctx context.Context, filter storage.ReportFilter) ([]models.Report, error) {
	where, args := reportWhere(filter)
	query := `SELECT ` + reportColumns + ` FROM reports r JOIN users u ON u.id = r.user_id` +
		where + ` ORDER BY r.created_at DESC`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// UpdateReport persists report over the row matching the filter. Zero rows
// matched is ErrNotFound, indistinguishable from an absent record.
func (s *Store) UpdateReport(ctx context.Context, filter storage.ReportFilter, report models.Report) (models.Report, error) {
	where, args := reportWhere(filter)
	offset := len(args)
	query := fmt.Sprintf(`
		UPDATE reports r SET
			user_id = $%d, brand = $%d,
			patient_first_name = $%d, patient_last_name = $%d,
			patient_gender = $%d, patient_age = $%d,
			therapy_start_date = $%d, therapy_end_date = $%d,
			indication_common = $%d, indication_other = $%d,
			total_dosing_per_cycle = $%d, clinical_result = $%d,
			s_effects_mild = $%d, s_effects_mild_desc = $%d,
			s_effects_moderate = $%d, s_effects_moderate_desc = $%d,
			s_effects_severe = $%d, s_effects_severe_desc = $%d,
			md_name = $%d, md_clinic = $%d, md_phone = $%d, md_email = $%d`,
		offset+1, offset+2, offset+3, offset+4, offset+5, offset+6, offset+7,
		offset+8, offset+9, offset+10, offset+11, offset+12, offset+13,
		offset+14, offset+15, offset+16, offset+17, offset+18, offset+19,
		offset+20, offset+21, offset+22) + where
	args = append(args, reportArgs(report)[1:]...)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return models.Report{}, storage.ErrOwnerNotFound
		}
		return models.Report{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Report{}, storage.ErrNotFound
	}
	// Refetch by id alone: an admin may have just reassigned the owner.
	return s.GetReport(ctx, storage.ReportFilter{ID: report.ID})
}

// DeleteReport removes the row matching the filter.
func (s *Store) DeleteReport(ctx context.Context, filter storage.ReportFilter) error {
	where, args := reportWhere(filter)
	tag, err := s.pool.Exec(ctx, `DELETE FROM reports r`+where, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// reportWhere builds the WHERE clause for a filter. OwnerID, when present, is
// the ownership scope: callers without the admin role never query outside it.
func reportWhere(filter storage.ReportFilter) (string, []any) {
	clause := ""
	args := []any{}
	add := func(cond string, arg any) {
		args = append(args, arg)
		cond = fmt.Sprintf(cond, len(args))
		if clause == "" {
			clause = " WHERE " + cond
		} else {
			clause += " AND " + cond
		}
	}
	if filter.ID != "" {
		add("r.id = $%d", filter.ID)
	}
	if filter.OwnerID != "" {
		add("r.user_id = $%d", filter.OwnerID)
	}
	if filter.Brand != "" {
		add("r.brand ILIKE '%%' || $%d || '%%'", filter.Brand)
	}
	return clause, args
}

func reportArgs(r models.Report) []any {
	return []any{
		r.ID, r.OwnerID, r.Brand,
		r.PatientFirstName, r.PatientLastName, r.PatientGender, r.PatientAge,
		r.TherapyStartDate, r.TherapyEndDate,
		r.IndicationCommon, r.IndicationOther,
		r.TotalDosingPerCycle, r.ClinicalResult,
		r.SideEffectsMild, r.SideEffectsMildDesc,
		r.SideEffectsModerate, r.SideEffectsModDesc,
		r.SideEffectsSevere, r.SideEffectsSevDesc,
		r.PhysicianName, r.PhysicianClinic, r.PhysicianPhone, r.PhysicianEmail,
	}
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanReport(row pgx.Row) (models.Report, error) {
	var r models.Report
	owner := models.OwnerSummary{}
	err := row.Scan(
		&r.ID, &r.OwnerID, &r.Brand,
		&r.PatientFirstName, &r.PatientLastName, &r.PatientGender, &r.PatientAge,
		&r.TherapyStartDate, &r.TherapyEndDate,
		&r.IndicationCommon, &r.IndicationOther,
		&r.TotalDosingPerCycle, &r.ClinicalResult,
		&r.SideEffectsMild, &r.SideEffectsMildDesc,
		&r.SideEffectsModerate, &r.SideEffectsModDesc,
		&r.SideEffectsSevere, &r.SideEffectsSevDesc,
		&r.PhysicianName, &r.PhysicianClinic, &r.PhysicianPhone, &r.PhysicianEmail,
		&r.CreatedAt, &owner.Name, &owner.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Report{}, storage.ErrNotFound
		}
		return models.Report{}, err
	}
	r.Owner = &owner
	return r, nil
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
