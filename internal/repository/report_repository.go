package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crisis-service/internal/domain"
)

// ReportRepository encapsulates crisis report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.CrisisReport) error
	Update(ctx context.Context, report *domain.CrisisReport) error
	GetByID(ctx context.Context, id int64) (*domain.CrisisReport, error)
	List(ctx context.Context) ([]domain.CrisisReport, error)
	ListByResponder(ctx context.Context, responderID int64) ([]domain.CrisisReport, error)
	ListActiveByResponder(ctx context.Context, responderID int64) ([]domain.CrisisReport, error)
	Delete(ctx context.Context, id int64) error
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates the repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, title, description, category, status, severity, latitude, longitude,
               address, reporter_id, reporter_name, responder_id, responders, report_time`

func (r *reportRepository) Create(ctx context.Context, report *domain.CrisisReport) error {
	const query = `
        INSERT INTO crisis_reports (title, description, category, status, severity, latitude, longitude,
            address, reporter_id, reporter_name, responder_id, responders, report_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		report.Title,
		report.Description,
		report.Category,
		report.Status,
		report.Severity,
		report.Latitude,
		report.Longitude,
		report.Address,
		report.ReporterID,
		report.ReporterName,
		report.ResponderID,
		report.Responders,
		report.ReportTime,
	).Scan(&report.ID)
}

func (r *reportRepository) Update(ctx context.Context, report *domain.CrisisReport) error {
	const query = `
        UPDATE crisis_reports SET title=$1, description=$2, category=$3, status=$4, severity=$5,
            latitude=$6, longitude=$7, address=$8, reporter_id=$9, reporter_name=$10,
            responder_id=$11, responders=$12
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		report.Title,
		report.Description,
		report.Category,
		report.Status,
		report.Severity,
		report.Latitude,
		report.Longitude,
		report.Address,
		report.ReporterID,
		report.ReporterName,
		report.ResponderID,
		report.Responders,
		report.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id int64) (*domain.CrisisReport, error) {
	const query = `SELECT ` + reportColumns + ` FROM crisis_reports WHERE id=$1`
	var report domain.CrisisReport
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&report.Category,
		&report.Status,
		&report.Severity,
		&report.Latitude,
		&report.Longitude,
		&report.Address,
		&report.ReporterID,
		&report.ReporterName,
		&report.ResponderID,
		&report.Responders,
		&report.ReportTime,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context) ([]domain.CrisisReport, error) {
	const query = `SELECT ` + reportColumns + ` FROM crisis_reports ORDER BY report_time DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) ListByResponder(ctx context.Context, responderID int64) ([]domain.CrisisReport, error) {
	const query = `SELECT ` + reportColumns + ` FROM crisis_reports WHERE responder_id=$1 ORDER BY report_time DESC`
	rows, err := r.pool.Query(ctx, query, responderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) ListActiveByResponder(ctx context.Context, responderID int64) ([]domain.CrisisReport, error) {
	const query = `SELECT ` + reportColumns + ` FROM crisis_reports
        WHERE responder_id=$1 AND status <> $2 ORDER BY report_time DESC`
	rows, err := r.pool.Query(ctx, query, responderID, domain.ReportStatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM crisis_reports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanReports(rows pgx.Rows) ([]domain.CrisisReport, error) {
	var result []domain.CrisisReport
	for rows.Next() {
		var report domain.CrisisReport
		if err := rows.Scan(
			&report.ID,
			&report.Title,
			&report.Description,
			&report.Category,
			&report.Status,
			&report.Severity,
			&report.Latitude,
			&report.Longitude,
			&report.Address,
			&report.ReporterID,
			&report.ReporterName,
			&report.ResponderID,
			&report.Responders,
			&report.ReportTime,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
