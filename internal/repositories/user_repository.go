package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"connectibles/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, email, name, bio, interests, skills, location, avatar_url, connections, blocked_users, is_banned, push_token, last_active, created_at`

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error)
	AppendConnection(ctx context.Context, userID int64, otherID int64) error
	RemoveConnection(ctx context.Context, userID int64, otherID int64) error
	AppendBlocked(ctx context.Context, userID int64, targetID int64) error
	RemoveBlocked(ctx context.Context, userID int64, targetID int64) error
	SetBanned(ctx context.Context, userID int64, banned bool) error
	TouchLastActive(ctx context.Context, userID int64) error
	SetPushToken(ctx context.Context, userID int64, token string) error
	SetAvatarURL(ctx context.Context, userID int64, url string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user at signup.
func (r *UserRepo) Create(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `INSERT INTO users (email) VALUES ($1) RETURNING `+userColumns, email)
	return user, err
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ListAll returns every user ordered by id.
func (r *UserRepo) ListAll(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	return users, err
}

// ListByIDs returns the users among ids, ordered by id. Unknown ids are skipped.
func (r *UserRepo) ListByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY id ASC`, pq.Array(ids))
	return users, err
}

// UpdateProfile applies the non-nil fields of update.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error) {
	var interests, skills interface{}
	if update.Interests != nil {
		interests = pq.StringArray(*update.Interests)
	}
	if update.Skills != nil {
		skills = pq.StringArray(*update.Skills)
	}

	var user models.User
	err := r.db.GetContext(ctx, &user, `UPDATE users SET
            name = COALESCE($2, name),
            bio = COALESCE($3, bio),
            interests = COALESCE($4::text[], interests),
            skills = COALESCE($5::text[], skills),
            location = COALESCE($6, location),
            last_active = NOW()
        WHERE id=$1 RETURNING `+userColumns,
		userID, update.Name, update.Bio, interests, skills, update.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// AppendConnection adds otherID to the user's connections once.
func (r *UserRepo) AppendConnection(ctx context.Context, userID int64, otherID int64) error {
	return r.execOne(ctx, `UPDATE users SET connections = array_append(connections, $2)
        WHERE id=$1 AND NOT ($2 = ANY(connections))`, userID, otherID)
}

func (r *UserRepo) RemoveConnection(ctx context.Context, userID int64, otherID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET connections = array_remove(connections, $2) WHERE id=$1`, userID, otherID)
	return err
}

// AppendBlocked adds targetID to the user's block list once.
func (r *UserRepo) AppendBlocked(ctx context.Context, userID int64, targetID int64) error {
	return r.execOne(ctx, `UPDATE users SET blocked_users = array_append(blocked_users, $2)
        WHERE id=$1 AND NOT ($2 = ANY(blocked_users))`, userID, targetID)
}

func (r *UserRepo) RemoveBlocked(ctx context.Context, userID int64, targetID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET blocked_users = array_remove(blocked_users, $2) WHERE id=$1`, userID, targetID)
	return err
}

func (r *UserRepo) SetBanned(ctx context.Context, userID int64, banned bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_banned=$2 WHERE id=$1`, userID, banned)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

func (r *UserRepo) TouchLastActive(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_active = NOW() WHERE id=$1`, userID)
	return err
}

func (r *UserRepo) SetPushToken(ctx context.Context, userID int64, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET push_token = NULLIF($2, '') WHERE id=$1`, userID, token)
	return err
}

func (r *UserRepo) SetAvatarURL(ctx context.Context, userID int64, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET avatar_url=$2 WHERE id=$1`, userID, url)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// DeleteAll wipes every user; dependent rows cascade.
func (r *UserRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// execOne treats "no row updated" as success so array appends stay idempotent,
// but still reports a missing user.
func (r *UserRepo) execOne(ctx context.Context, query string, userID int64, otherID int64) error {
	res, err := r.db.ExecContext(ctx, query, userID, otherID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID); err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func requireRow(res sql.Result, notFound error) error {
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return nil
}
