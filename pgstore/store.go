// Package pgstore implements adminauth.OperatorStore on PostgreSQL.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ieclub/adminauth"
	"github.com/ieclub/adminauth/permission"
)

var _ adminauth.OperatorStore = (*Store)(nil)

// Store persists operators in the admin_users table. The permissions
// and recovery_code_hashes columns are jsonb arrays.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL through the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// New wraps an existing connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

const operatorColumns = `id, username, email, real_name, password_hash, password_changed_at,
	role, permissions, status, failed_login_attempts, locked_until,
	two_factor_enabled, two_factor_secret, recovery_code_hashes,
	refresh_token, token_version, last_login_at, last_login_addr,
	created_at, updated_at`

func (s *Store) FindByEmail(ctx context.Context, email string) (*adminauth.Operator, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+operatorColumns+` from admin_users where email=$1`, email)
	return scanOperator(row)
}

func (s *Store) FindByID(ctx context.Context, id string) (*adminauth.Operator, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+operatorColumns+` from admin_users where id=$1`, id)
	return scanOperator(row)
}

func scanOperator(row *sql.Row) (*adminauth.Operator, error) {
	var (
		op          adminauth.Operator
		realName    sql.NullString
		perms       []byte
		lockedUntil sql.NullTime
		secret      sql.NullString
		codes       []byte
		refresh     sql.NullString
		lastLoginAt sql.NullTime
		lastAddr    sql.NullString
	)
	err := row.Scan(
		&op.ID, &op.Username, &op.Email, &realName, &op.PasswordHash, &op.PasswordChangedAt,
		&op.Role, &perms, &op.Status, &op.FailedLogins, &lockedUntil,
		&op.TwoFactorEnabled, &secret, &codes,
		&refresh, &op.TokenVersion, &lastLoginAt, &lastAddr,
		&op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, adminauth.ErrOperatorNotFound
		}
		return nil, err
	}

	op.RealName = realName.String
	if len(perms) > 0 {
		var list []permission.Permission
		if err := json.Unmarshal(perms, &list); err != nil {
			return nil, fmt.Errorf("decode permissions: %w", err)
		}
		op.Permissions = list
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		op.LockedUntil = &t
	}
	op.TwoFactorSecret = secret.String
	if len(codes) > 0 {
		if err := json.Unmarshal(codes, &op.RecoveryCodeHashes); err != nil {
			return nil, fmt.Errorf("decode recovery codes: %w", err)
		}
	}
	op.RefreshToken = refresh.String
	if lastLoginAt.Valid {
		t := lastLoginAt.Time
		op.LastLoginAt = &t
	}
	op.LastLoginAddr = lastAddr.String
	return &op, nil
}

// Update applies a partial update. Only set fields produce SET clauses;
// Clear flags null the column.
func (s *Store) Update(ctx context.Context, id string, upd adminauth.OperatorUpdate) error {
	var (
		sets []string
		args []interface{}
	)
	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	unset := func(col string) {
		sets = append(sets, col+"=null")
	}

	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	if upd.PasswordChangedAt != nil {
		add("password_changed_at", *upd.PasswordChangedAt)
	}
	if upd.FailedLogins != nil {
		add("failed_login_attempts", *upd.FailedLogins)
	}
	if upd.LockedUntil != nil {
		add("locked_until", *upd.LockedUntil)
	} else if upd.ClearLockedUntil {
		unset("locked_until")
	}
	if upd.TwoFactorEnabled != nil {
		add("two_factor_enabled", *upd.TwoFactorEnabled)
	}
	if upd.TwoFactorSecret != nil {
		add("two_factor_secret", *upd.TwoFactorSecret)
	} else if upd.ClearTwoFactorSecret {
		unset("two_factor_secret")
	}
	if upd.RecoveryCodeHashes != nil {
		encoded, err := json.Marshal(upd.RecoveryCodeHashes)
		if err != nil {
			return err
		}
		add("recovery_code_hashes", encoded)
	} else if upd.ClearRecoveryCodeHashes {
		unset("recovery_code_hashes")
	}
	if upd.RefreshToken != nil {
		add("refresh_token", *upd.RefreshToken)
	} else if upd.ClearRefreshToken {
		unset("refresh_token")
	}
	if upd.LastLoginAt != nil {
		add("last_login_at", *upd.LastLoginAt)
	}
	if upd.LastLoginAddr != nil {
		add("last_login_addr", *upd.LastLoginAddr)
	}
	if upd.Status != nil {
		add("status", string(*upd.Status))
	}

	if len(sets) == 0 {
		return nil
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("update admin_users set %s where id=$%d",
		strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return adminauth.ErrOperatorNotFound
	}
	return nil
}

func (s *Store) IncrementFailedLogins(ctx context.Context, id string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`update admin_users
		 set failed_login_attempts = failed_login_attempts + 1, updated_at = now()
		 where id=$1
		 returning failed_login_attempts`, id).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, adminauth.ErrOperatorNotFound
		}
		return 0, err
	}
	return count, nil
}

func (s *Store) IncrementTokenVersion(ctx context.Context, id string) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx,
		`update admin_users
		 set token_version = token_version + 1, updated_at = now()
		 where id=$1
		 returning token_version`, id).Scan(&version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, adminauth.ErrOperatorNotFound
		}
		return 0, err
	}
	return version, nil
}
