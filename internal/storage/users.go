package storage

import (
	"context"

	"github.com/claude/trackingtfm/internal/models"
)

const userColumns = `id, saram, email, name, rank, birth_date, sex, organization_id, access_level`

// GetUser returns a user's profile.
func (db *DB) GetUser(ctx context.Context, userID int) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID,
	).Scan(&u.ID, &u.SARAM, &u.Email, &u.Name, &u.Rank, &u.BirthDate, &u.Sex, &u.OrganizationID, &u.AccessLevel)
	if err != nil {
		return nil, noRows(err, "querying user")
	}
	return &u, nil
}

// UpdateUser overwrites the self-editable profile fields. SARAM, e-mail and
// password are not changed here.
func (db *DB) UpdateUser(ctx context.Context, userID int, upd models.UserUpdate) (*models.User, error) {
	var u models.User
	err := db.Pool.QueryRow(ctx,
		`UPDATE users
		 SET name = $1, rank = $2, birth_date = $3, sex = $4, organization_id = $5
		 WHERE id = $6
		 RETURNING `+userColumns,
		upd.Name, upd.Rank, upd.BirthDate, upd.Sex, upd.OrganizationID, userID,
	).Scan(&u.ID, &u.SARAM, &u.Email, &u.Name, &u.Rank, &u.BirthDate, &u.Sex, &u.OrganizationID, &u.AccessLevel)
	if err != nil {
		return nil, noRows(err, "updating user")
	}
	return &u, nil
}
