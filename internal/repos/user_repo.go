package repos

import (
	"github.com/jmoiron/sqlx"

	"marketnest/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, username, email, password_hash, external_id, created_at, updated_at`

func (r *UserRepo) Create(username, email string, hash, externalID *string) (*domain.User, error) {
	res, err := r.DB.Exec(`INSERT INTO users(username, email, password_hash, external_id)
	  VALUES(?,?,?,?)`, username, email, hash, externalID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.ByID(id)
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	if err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	if err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	if err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE username=?`, username); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByExternalID(externalID string) (*domain.User, error) {
	var u domain.User
	if err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE external_id=?`, externalID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) LinkExternalID(userID int64, externalID string) error {
	_, err := r.DB.Exec(`UPDATE users SET external_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, externalID, userID)
	return err
}

func (r *UserRepo) UpdateAccount(userID int64, username, email *string) error {
	if username != nil {
		if _, err := r.DB.Exec(`UPDATE users SET username=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, *username, userID); err != nil {
			return err
		}
	}
	if email != nil {
		if _, err := r.DB.Exec(`UPDATE users SET email=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, *email, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepo) Profile(userID int64) (*domain.Profile, error) {
	var p domain.Profile
	err := r.DB.Get(&p, `SELECT user_id, legal_name, phone, bio, avatar, location,
	  language, currency, notify_email, notify_sms, updated_at
	  FROM user_profiles WHERE user_id=?`, userID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile merges the given fields into the user's profile row, only
// overwriting columns that were actually sent.
func (r *UserRepo) UpsertProfile(p *domain.Profile) error {
	_, err := r.DB.Exec(`INSERT INTO user_profiles(
	    user_id, legal_name, phone, bio, avatar, location, language, currency,
	    notify_email, notify_sms, updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id) DO UPDATE SET
	    legal_name  = COALESCE(excluded.legal_name, user_profiles.legal_name),
	    phone       = COALESCE(excluded.phone, user_profiles.phone),
	    bio         = COALESCE(excluded.bio, user_profiles.bio),
	    avatar      = COALESCE(excluded.avatar, user_profiles.avatar),
	    location    = COALESCE(excluded.location, user_profiles.location),
	    language    = COALESCE(excluded.language, user_profiles.language),
	    currency    = COALESCE(excluded.currency, user_profiles.currency),
	    notify_email = COALESCE(excluded.notify_email, user_profiles.notify_email),
	    notify_sms  = COALESCE(excluded.notify_sms, user_profiles.notify_sms),
	    updated_at  = CURRENT_TIMESTAMP`,
		p.UserID, p.LegalName, p.Phone, p.Bio, p.Avatar, p.Location,
		p.Language, p.Currency, p.NotifyEmail, p.NotifySMS)
	return err
}

func (r *UserRepo) CreateSession(s *domain.Session) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(token, user_id, expires_at) VALUES(?,?,?)`,
		s.Token, s.UserID, s.ExpiresAt)
	return err
}

// SessionUser resolves a session token to its user, ignoring expired rows.
func (r *UserRepo) SessionUser(token string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT u.id, u.username, u.email, u.password_hash, u.external_id, u.created_at, u.updated_at
	  FROM sessions s
	  JOIN users u ON u.id = s.user_id
	  WHERE s.token = ? AND s.expires_at > datetime('now')`, token)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) DeleteSession(token string) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE token=?`, token)
	return err
}

func (r *UserRepo) DeleteSessionsFor(userID int64) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE user_id=?`, userID)
	return err
}

// Hosts lists users that own at least one listing, with moderation counts.
func (r *UserRepo) Hosts() ([]domain.HostSummary, error) {
	out := []domain.HostSummary{}
	err := r.DB.Select(&out, `
	  SELECT u.id, u.username, u.email, u.created_at,
	    COUNT(DISTINCT l.id) AS listing_count,
	    (SELECT COUNT(*) FROM bookings b JOIN listings hl ON hl.id = b.listing_id WHERE hl.user_id = u.id) AS booking_count,
	    (SELECT COUNT(*) FROM reports rp WHERE rp.host_id = u.id AND rp.status = 'open') AS open_reports
	  FROM users u
	  JOIN listings l ON l.user_id = u.id
	  GROUP BY u.id
	  ORDER BY listing_count DESC, u.id ASC`)
	return out, err
}

// DeleteUserCascade removes a user and every row that references them. The
// schema declares ON DELETE CASCADE on all dependent tables, so one delete
// inside a transaction is enough.
func (r *UserRepo) DeleteUserCascade(userID int64) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return err
	}
	return tx.Commit()
}
