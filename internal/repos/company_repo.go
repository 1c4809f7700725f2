package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type CompanyRepo struct{ DB *sqlx.DB }

func NewCompanyRepo(db *sqlx.DB) *CompanyRepo { return &CompanyRepo{DB: db} }

const companyCols = `id, user_id, name, email, phone, location, description,
  logo_url, banner_url, created_at, updated_at`

// Upsert creates or updates the caller's shop profile (one per user).
func (r *CompanyRepo) Upsert(c *domain.Company) (*domain.Company, error) {
	_, err := r.DB.Exec(`INSERT INTO companies(
	    user_id, name, email, phone, location, description, logo_url, banner_url)
	  VALUES(?,?,?,?,?,?,?,?)
	  ON CONFLICT(user_id) DO UPDATE SET
	    name=excluded.name, email=excluded.email, phone=excluded.phone,
	    location=excluded.location,
	    description=COALESCE(excluded.description, companies.description),
	    logo_url=COALESCE(excluded.logo_url, companies.logo_url),
	    banner_url=COALESCE(excluded.banner_url, companies.banner_url),
	    updated_at=CURRENT_TIMESTAMP`,
		c.UserID, c.Name, c.Email, c.Phone, c.Location, c.Description, c.LogoURL, c.BannerURL)
	if err != nil {
		return nil, err
	}
	return r.ByUserID(c.UserID)
}

func (r *CompanyRepo) ByID(id int64) (*domain.Company, error) {
	var c domain.Company
	if err := r.DB.Get(&c, `SELECT `+companyCols+` FROM companies WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepo) ByUserID(userID int64) (*domain.Company, error) {
	var c domain.Company
	if err := r.DB.Get(&c, `SELECT `+companyCols+` FROM companies WHERE user_id=?`, userID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepo) ActiveListingCount(companyID int64) (int64, error) {
	var n int64
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM listings WHERE company_id=? AND status='active'`, companyID)
	return n, err
}

const projectCols = `id, company_id, user_id, name, description, cost, location,
  plan_url, showcase_url, created_at, updated_at`

func (r *CompanyRepo) CreateProject(p *domain.CompanyProject) (*domain.CompanyProject, error) {
	res, err := r.DB.Exec(`INSERT INTO company_projects(
	    company_id, user_id, name, description, cost, location, plan_url, showcase_url)
	  VALUES(?,?,?,?,?,?,?,?)`,
		p.CompanyID, p.UserID, p.Name, p.Description, p.Cost, p.Location, p.PlanURL, p.ShowcaseURL)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	for _, url := range p.Images {
		if _, err := r.DB.Exec(`INSERT INTO company_project_images(project_id, image_url)
		  VALUES(?,?)`, id, url); err != nil {
			return nil, err
		}
	}
	return r.ProjectByID(id)
}

func (r *CompanyRepo) ProjectByID(id int64) (*domain.CompanyProject, error) {
	var p domain.CompanyProject
	if err := r.DB.Get(&p, `SELECT `+projectCols+` FROM company_projects WHERE id=?`, id); err != nil {
		return nil, err
	}
	images, err := r.projectImages([]int64{id})
	if err != nil {
		return nil, err
	}
	p.Images = images[id]
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

// ProjectsFor lists a user's portfolio projects with their galleries.
func (r *CompanyRepo) ProjectsFor(userID int64) ([]domain.CompanyProject, error) {
	out := []domain.CompanyProject{}
	err := r.DB.Select(&out, `SELECT `+projectCols+` FROM company_projects
	  WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	images, err := r.projectImages(ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Images = images[out[i].ID]
		if out[i].Images == nil {
			out[i].Images = []string{}
		}
	}
	return out, nil
}

// projectImages fetches galleries for a batch of projects in one query.
func (r *CompanyRepo) projectImages(projectIDs []int64) (map[int64][]string, error) {
	res := map[int64][]string{}
	if len(projectIDs) == 0 {
		return res, nil
	}
	query, args, err := sqlx.In(`SELECT project_id, image_url
	  FROM company_project_images WHERE project_id IN (?) ORDER BY id ASC`, projectIDs)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ProjectID int64  `db:"project_id"`
		ImageURL  string `db:"image_url"`
	}
	if err := r.DB.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.ProjectID] = append(res[row.ProjectID], row.ImageURL)
	}
	return res, nil
}

// UpdateProject rewrites a project's fields, scoped to its owner.
func (r *CompanyRepo) UpdateProject(p *domain.CompanyProject) error {
	res, err := r.DB.Exec(`UPDATE company_projects SET
	    name=?, description=?, cost=?, location=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=? AND user_id=?`,
		p.Name, p.Description, p.Cost, p.Location, p.ID, p.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *CompanyRepo) DeleteProject(id, userID int64) error {
	res, err := r.DB.Exec(`DELETE FROM company_projects WHERE id=? AND user_id=?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
