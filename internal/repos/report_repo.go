package repos

import (
	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type ReportRepo struct{ DB *sqlx.DB }

func NewReportRepo(db *sqlx.DB) *ReportRepo { return &ReportRepo{DB: db} }

func (r *ReportRepo) Create(rep *domain.Report) (*domain.Report, error) {
	res, err := r.DB.Exec(`INSERT INTO reports(reporter_id, host_id, listing_id, reason, status)
	  VALUES(?,?,?,?,'open')`, rep.ReporterID, rep.HostID, rep.ListingID, rep.Reason)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var out domain.Report
	if err := r.DB.Get(&out, `SELECT id, reporter_id, host_id, listing_id, reason, status, created_at
	  FROM reports WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReportRepo) List(status string) ([]domain.Report, error) {
	out := []domain.Report{}
	if status == "" {
		err := r.DB.Select(&out, `SELECT id, reporter_id, host_id, listing_id, reason, status, created_at
		  FROM reports ORDER BY created_at DESC`)
		return out, err
	}
	err := r.DB.Select(&out, `SELECT id, reporter_id, host_id, listing_id, reason, status, created_at
	  FROM reports WHERE status=? ORDER BY created_at DESC`, status)
	return out, err
}
