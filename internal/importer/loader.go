package importer

import (
	"fmt"

	"github.com/mspro/rentalbooks/backend/internal/auth"
	"github.com/mspro/rentalbooks/backend/internal/db"
	"github.com/mspro/rentalbooks/backend/internal/logutil"
	"github.com/mspro/rentalbooks/backend/internal/models"
)

const (
	bookingPattern = "*Booking.xlsx"
	expensePattern = "*expense*.xlsx"

	// DefaultAdminID and DefaultAdminPassword seed the first admin
	// account after an import when none exists. The password is a
	// placeholder the operator is expected to change immediately.
	DefaultAdminID       = "admin"
	DefaultAdminPassword = "change-me-now"
)

// Loader runs the batch import: scan the data folder, normalize the
// workbook schemas, clean the rows, and atomically replace the
// persisted dataset.
type Loader struct {
	store   db.Store
	log     *logutil.Logger
	dataDir string
}

func NewLoader(store db.Store, log *logutil.Logger, dataDir string) *Loader {
	return &Loader{store: store, log: log, dataDir: dataDir}
}

// Run executes the full pipeline. A failure during the replace aborts
// the import and leaves the previously persisted dataset intact.
func (l *Loader) Run() error {
	bookingSets, err := l.readAll(bookingPattern)
	if err != nil {
		return fmt.Errorf("reading booking files: %w", err)
	}
	expenseSets, err := l.readAll(expensePattern)
	if err != nil {
		return fmt.Errorf("reading expense files: %w", err)
	}

	bookings, bookingRejects := CleanBookings(Normalize(BookingFields, bookingSets...))
	expenses, expenseRejects := CleanExpenses(Normalize(ExpenseFields, expenseSets...))

	for _, r := range append(bookingRejects, expenseRejects...) {
		l.log.Warn("Dropped row: %s", r)
	}
	l.log.Info("Cleaned dataset: %d bookings, %d expenses, %d rows dropped",
		len(bookings), len(expenses), len(bookingRejects)+len(expenseRejects))

	if err := l.store.ReplaceAll(bookings, expenses); err != nil {
		return fmt.Errorf("bulk load failed, previous dataset left intact: %w", err)
	}
	l.log.Info("Dataset replaced successfully")

	if err := l.ensureAdmin(); err != nil {
		return fmt.Errorf("ensuring admin account: %w", err)
	}
	return nil
}

func (l *Loader) readAll(pattern string) ([]Dataset, error) {
	files, err := ListSourceFiles(l.dataDir, pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		l.log.Warn("No files found for pattern %q in %s", pattern, l.dataDir)
		return nil, nil
	}

	var datasets []Dataset
	for _, f := range files {
		ds, err := ReadWorkbook(f)
		if err != nil {
			l.log.Warn("Skipping unreadable file: %v", err)
			continue
		}
		l.log.Info("Read %s: %d rows", f, len(ds.Rows))
		datasets = append(datasets, ds)
	}
	return datasets, nil
}

// ensureAdmin creates the default admin account if no admin exists yet.
// An existing admin is never touched.
func (l *Loader) ensureAdmin() error {
	exists, err := l.store.AdminExists()
	if err != nil || exists {
		return err
	}

	hash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return err
	}
	if err := l.store.CreateUser(models.User{
		ID:           DefaultAdminID,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		FeePercent:   models.DefaultFeePercent,
	}); err != nil {
		return err
	}
	l.log.Warn("Created default admin account %q with a placeholder password", DefaultAdminID)
	return nil
}
