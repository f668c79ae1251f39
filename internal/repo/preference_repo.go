package repo

import (
	"context"
	"database/sql"

	"github.com/asklab/askloop/internal/model"
	appErr "github.com/asklab/askloop/internal/pkg/errors"
)

type PreferenceRepo struct {
	db *sql.DB
}

func NewPreferenceRepo(db *sql.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// Save replaces the user's whole tag set; there is no merge.
func (r *PreferenceRepo) Save(ctx context.Context, pref *model.UserPreference) error {
	const query = `
		INSERT INTO user_preferences (user_id, tags, ctime, mtime)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			tags = EXCLUDED.tags,
			mtime = EXCLUDED.mtime
	`
	_, err := r.db.ExecContext(ctx, query, pref.UserID, joinTags(pref.Tags), pref.Ctime, pref.Mtime)
	return err
}

func (r *PreferenceRepo) Get(ctx context.Context, userID string) (*model.UserPreference, error) {
	const query = `
		SELECT user_id, tags, ctime, mtime
		FROM user_preferences
		WHERE user_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, userID)
	var pref model.UserPreference
	var tags string
	if err := row.Scan(&pref.UserID, &tags, &pref.Ctime, &pref.Mtime); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	pref.Tags = splitTags(tags)
	return &pref, nil
}
