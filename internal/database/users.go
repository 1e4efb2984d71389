package database

import (
	"context"
	"errors"
	"serwer-zasobow/internal/auth"
	"serwer-zasobow/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrEmailTaken = errors.New("a user with this email already exists")

// All user SELECTs coalesce the nullable flag columns, so a NULL disabled or
// is_superuser always reads as false.
const userColumns = `
	id,
	email,
	full_name,
	hashed_password,
	COALESCE(disabled, false),
	COALESCE(is_superuser, false),
	created_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.HashedPassword,
		&user.Disabled,
		&user.IsSuperuser,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.db.QueryRow(ctx, query, email))
}

type CreateUserParams struct {
	Email       string
	FullName    *string
	Password    string
	Disabled    bool
	IsSuperuser bool
}

// CreateUser hashes the plaintext password before storing; the plaintext never
// reaches the database. A duplicate email surfaces as ErrEmailTaken.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(arg.Password)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (email, full_name, hashed_password, disabled, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	user, err := scanUser(q.db.QueryRow(ctx, query,
		arg.Email,
		arg.FullName,
		hashedPassword,
		arg.Disabled,
		arg.IsSuperuser,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// UpdateUserParams distinguishes "not sent" (nil) from "sent". A JSON null in
// the request decodes to nil too, so there is no way to clear full_name back
// to NULL through an update; send an empty string instead.
type UpdateUserParams struct {
	Email       *string
	FullName    *string
	Password    *string
	Disabled    *bool
	IsSuperuser *bool
}

// UpdateUser overwrites only the fields present in arg. A password is re-hashed
// and replaced only when it is both present and non-empty; an omitted field or
// an explicit empty string leaves the stored hash untouched.
func (q *Queries) UpdateUser(ctx context.Context, id int64, arg UpdateUserParams) (*models.User, error) {
	var hashedPassword *string
	if arg.Password != nil && *arg.Password != "" {
		hash, err := auth.HashPassword(*arg.Password)
		if err != nil {
			return nil, err
		}
		hashedPassword = &hash
	}

	query := `
		UPDATE users SET
			email           = COALESCE($1, email),
			full_name       = COALESCE($2, full_name),
			hashed_password = COALESCE($3, hashed_password),
			disabled        = COALESCE($4, disabled),
			is_superuser    = COALESCE($5, is_superuser)
		WHERE id = $6
		RETURNING ` + userColumns

	user, err := scanUser(q.db.QueryRow(ctx, query,
		arg.Email,
		arg.FullName,
		hashedPassword,
		arg.Disabled,
		arg.IsSuperuser,
		id,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

func (q *Queries) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := q.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.FullName,
			&user.HashedPassword,
			&user.Disabled,
			&user.IsSuperuser,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if users == nil {
		return []models.User{}, nil
	}

	return users, nil
}

// AuthenticateUser verifies email+password. It returns (nil, nil) both for an
// unknown email and for a wrong password, so callers cannot tell them apart.
func (q *Queries) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := q.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if !auth.CheckPasswordHash(password, user.HashedPassword) {
		return nil, nil
	}
	return user, nil
}

func (q *Queries) UpdateUserPassword(ctx context.Context, userID int64, newPasswordHash string) error {
	query := `UPDATE users SET hashed_password = $1 WHERE id = $2`
	_, err := q.db.Exec(ctx, query, newPasswordHash, userID)
	return err
}
