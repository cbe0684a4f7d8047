package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mspro/rentalbooks/backend/internal/models"
)

// PostgresStore is the production Store backed by PostgreSQL
type PostgresStore struct {
	conn *sql.DB
}

// Connect opens a Store. With an empty databaseURL it falls back to the
// in-memory store for local development without a database.
func Connect(databaseURL string) (Store, error) {
	if databaseURL == "" {
		return NewMemoryStore(), nil
	}

	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Minute * 5)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	s := &PostgresStore{conn: conn}
	if err := s.createTables(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id                        VARCHAR(80)  PRIMARY KEY,
		password_hash             VARCHAR(200) NOT NULL,
		role                      VARCHAR(80)  NOT NULL DEFAULT 'owner',
		allowed_units             TEXT[],
		management_fee_percentage DOUBLE PRECISION NOT NULL DEFAULT 30.0
	);

	CREATE TABLE IF NOT EXISTS booking (
		id              VARCHAR(80) PRIMARY KEY,
		unit_name       VARCHAR(120),
		checkin         DATE NOT NULL,
		checkout        DATE NOT NULL,
		channel         VARCHAR(80),
		on_offline      VARCHAR(80),
		booking_number  VARCHAR(100),
		pax             INTEGER,
		duration        INTEGER,
		price           NUMERIC(12,2) DEFAULT 0,
		cleaning_fee    NUMERIC(12,2) DEFAULT 0,
		platform_charge NUMERIC(12,2) DEFAULT 0,
		total           NUMERIC(12,2) DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS expense (
		id          VARCHAR(80) PRIMARY KEY,
		unit_name   VARCHAR(120),
		date        DATE NOT NULL,
		particulars VARCHAR(200),
		debit       NUMERIC(12,2) DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_booking_checkin ON booking (checkin);
	CREATE INDEX IF NOT EXISTS idx_booking_unit    ON booking (unit_name);
	CREATE INDEX IF NOT EXISTS idx_expense_date    ON expense (date);
	`
	if _, err := s.conn.Exec(query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateUser(u models.User) error {
	_, err := s.conn.Exec(
		`INSERT INTO users (id, password_hash, role, allowed_units, management_fee_percentage)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.PasswordHash, u.Role, pq.Array(u.AllowedUnits), u.FeePercent)
	return err
}

func (s *PostgresStore) GetUser(id string) (models.User, error) {
	var u models.User
	var units pq.StringArray
	err := s.conn.QueryRow(
		`SELECT id, password_hash, role, allowed_units, management_fee_percentage
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.PasswordHash, &u.Role, &units, &u.FeePercent)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	u.AllowedUnits = units
	return u, nil
}

func (s *PostgresStore) UpdateUserAccess(id string, units []string, feePercent float64) error {
	res, err := s.conn.Exec(
		`UPDATE users SET allowed_units = $2, management_fee_percentage = $3 WHERE id = $1`,
		id, pq.Array(units), feePercent)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostgresStore) UpdateUserPassword(id, passwordHash string) error {
	res, err := s.conn.Exec(`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AdminExists() (bool, error) {
	var n int
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM users WHERE role = $1`, models.RoleAdmin).Scan(&n)
	return n > 0, err
}

// ReplaceAll deletes both tables and bulk-inserts the new dataset inside
// one transaction, so a failed import never leaves a truncated store.
func (s *PostgresStore) ReplaceAll(bookings []models.Booking, expenses []models.Expense) (err error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM booking`); err != nil {
		return fmt.Errorf("failed to clear booking table: %w", err)
	}
	if _, err = tx.Exec(`DELETE FROM expense`); err != nil {
		return fmt.Errorf("failed to clear expense table: %w", err)
	}

	bstmt, err := tx.Prepare(`
		INSERT INTO booking (id, unit_name, checkin, checkout, channel, on_offline,
			booking_number, pax, duration, price, cleaning_fee, platform_charge, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`)
	if err != nil {
		return fmt.Errorf("failed to prepare booking insert: %w", err)
	}
	defer bstmt.Close()

	for _, b := range bookings {
		if _, err = bstmt.Exec(b.ID, nullable(b.UnitName), b.Checkin, b.Checkout,
			b.Channel, b.OnOffline, b.BookingNumber, b.Pax, b.Duration,
			b.Price, b.CleaningFee, b.PlatformCharge, b.Total); err != nil {
			return fmt.Errorf("failed to insert booking %s: %w", b.ID, err)
		}
	}

	estmt, err := tx.Prepare(`
		INSERT INTO expense (id, unit_name, date, particulars, debit)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("failed to prepare expense insert: %w", err)
	}
	defer estmt.Close()

	for _, e := range expenses {
		if _, err = estmt.Exec(e.ID, nullable(e.UnitName), e.Date, e.Particulars, e.Debit); err != nil {
			return fmt.Errorf("failed to insert expense %s: %w", e.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *PostgresStore) BookingsInPeriod(year, month int) ([]models.Booking, error) {
	query := `SELECT id, unit_name, checkin, checkout, channel, on_offline,
		booking_number, pax, duration, price, cleaning_fee, platform_charge, total
		FROM booking WHERE EXTRACT(YEAR FROM checkin) = $1`
	args := []interface{}{year}
	if month != 0 {
		query += ` AND EXTRACT(MONTH FROM checkin) = $2`
		args = append(args, month)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Booking
	for rows.Next() {
		var b models.Booking
		var unit, channel, onOffline, number sql.NullString
		var price, cleaning, charge, total decimal.NullDecimal
		if err := rows.Scan(&b.ID, &unit, &b.Checkin, &b.Checkout, &channel, &onOffline,
			&number, &b.Pax, &b.Duration, &price, &cleaning, &charge, &total); err != nil {
			return nil, err
		}
		b.UnitName = unit.String
		b.Channel = channel.String
		b.OnOffline = onOffline.String
		b.BookingNumber = number.String
		b.Price = price.Decimal
		b.CleaningFee = cleaning.Decimal
		b.PlatformCharge = charge.Decimal
		b.Total = total.Decimal
		result = append(result, b)
	}
	return result, rows.Err()
}

func (s *PostgresStore) ExpensesInPeriod(year, month int) ([]models.Expense, error) {
	query := `SELECT id, unit_name, date, particulars, debit
		FROM expense WHERE EXTRACT(YEAR FROM date) = $1`
	args := []interface{}{year}
	if month != 0 {
		query += ` AND EXTRACT(MONTH FROM date) = $2`
		args = append(args, month)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Expense
	for rows.Next() {
		var e models.Expense
		var unit, particulars sql.NullString
		var debit decimal.NullDecimal
		if err := rows.Scan(&e.ID, &unit, &e.Date, &particulars, &debit); err != nil {
			return nil, err
		}
		e.UnitName = unit.String
		e.Particulars = particulars.String
		e.Debit = debit.Decimal
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *PostgresStore) DistinctUnits() ([]string, error) {
	rows, err := s.conn.Query(
		`SELECT DISTINCT unit_name FROM booking WHERE unit_name IS NOT NULL ORDER BY unit_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (s *PostgresStore) BookingYears() ([]int, error) {
	rows, err := s.conn.Query(
		`SELECT DISTINCT EXTRACT(YEAR FROM checkin)::int FROM booking ORDER BY 1 DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.conn.Close()
}
