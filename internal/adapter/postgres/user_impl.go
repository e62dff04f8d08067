package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/price-tracker/internal/entity"
	"github.com/user/price-tracker/internal/repository"
)

// UserRepoImpl provides a concrete implementation for the UserRepository interface using PostgreSQL.
type UserRepoImpl struct {
	db *pgxpool.Pool
}

// NewUserRepo creates a new instance of UserRepoImpl.
func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

var _ repository.UserRepository = (*UserRepoImpl)(nil)

const userColumns = `id, email, password_hash, is_admin, bank_name, account_owner, account_number, ifsc_code, upi_id, created_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.Bank.BankName,
		&u.Bank.AccountOwner,
		&u.Bank.AccountNumber,
		&u.Bank.IFSCCode,
		&u.Bank.UPIID,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// Create inserts a new user and fills in CreatedAt.
func (r *UserRepoImpl) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at;
	`
	err := r.db.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash, user.IsAdmin).Scan(&user.CreatedAt)
	return mapError(err)
}

// FindByID retrieves a user by primary key.
func (r *UserRepoImpl) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id))
}

// FindByEmail retrieves a user by email address.
func (r *UserRepoImpl) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email))
}

// List returns all users, oldest first.
func (r *UserRepoImpl) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateBankDetails replaces the payout details of a user.
func (r *UserRepoImpl) UpdateBankDetails(ctx context.Context, id string, bank entity.BankDetails) error {
	query := `
		UPDATE users SET
			bank_name = $2,
			account_owner = $3,
			account_number = $4,
			ifsc_code = $5,
			upi_id = $6
		WHERE id = $1;
	`
	tag, err := r.db.Exec(ctx, query, id, bank.BankName, bank.AccountOwner, bank.AccountNumber, bank.IFSCCode, bank.UPIID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Ping checks the database connection.
func (r *UserRepoImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
