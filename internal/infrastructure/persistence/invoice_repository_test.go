package persistence

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printflow/backend/internal/domain/billing"
	"github.com/printflow/backend/internal/domain/shared"
)

func invoiceRows(invoiceID uuid.UUID, status string, dueDate time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version", "created_by",
		"invoice_number", "project_id", "client_id", "status", "type",
		"items", "payments", "attachment_ids",
		"subtotal", "discount_amount", "tax_amount", "total", "currency",
		"issued_date", "due_date",
	}).AddRow(
		invoiceID, now, now, 1, uuid.New(),
		"INV20260001", uuid.New(), uuid.New(), status, "STANDARD",
		"[]", "[]", "[]",
		"200", "0", "0", "200", "AED",
		now.AddDate(0, 0, -40), dueDate,
	)
}

func TestGormInvoiceRepository_FindByInvoiceNumber(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceRepository(db)

	invoiceID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE invoice_number = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("INV20260001", 1).
		WillReturnRows(invoiceRows(invoiceID, "SENT", time.Now().AddDate(0, 1, 0)))

	invoice, err := repo.FindByInvoiceNumber(context.Background(), "INV20260001")

	require.NoError(t, err)
	assert.Equal(t, invoiceID, invoice.ID)
	assert.Equal(t, billing.InvoiceStatusSent, invoice.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceRepository_FindOverdue(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceRepository(db)

	cutoff := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE due_date < \$1 AND status IN \(\$2,\$3\) ORDER BY due_date ASC LIMIT .*`).
		WithArgs(cutoff, "SENT", "VIEWED", 50).
		WillReturnRows(invoiceRows(uuid.New(), "SENT", cutoff.AddDate(0, 0, -10)))

	invoices, err := repo.FindOverdue(context.Background(), cutoff, 50)

	require.NoError(t, err)
	require.Len(t, invoices, 1)
	// stored status stays SENT, overdue is derived on read
	assert.Equal(t, billing.InvoiceStatusSent, invoices[0].Status)
	assert.Equal(t, billing.InvoiceStatusOverdue, invoices[0].EffectiveStatus())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceRepository_SaveWithLock(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceRepository(db)

	invoiceID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(invoiceID, 1).
		WillReturnRows(invoiceRows(invoiceID, "SENT", time.Now().AddDate(0, 1, 0)))

	invoice, err := repo.FindByID(context.Background(), invoiceID)
	require.NoError(t, err)
	require.Equal(t, 1, invoice.LoadedVersion())

	// the mutation advances the aggregate's version past the stored row
	require.NoError(t, invoice.MarkViewed())
	require.Equal(t, 2, invoice.Version)

	// SET assignments follow the model's field order with id and created_at
	// omitted, so version is the second argument; the WHERE clause carries
	// the id and the load-time version last.
	args := make([]driver.Value, 26)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	args[1] = 2         // stored version comes from the mutated aggregate
	args[24] = invoiceID
	args[25] = 1 // compared version is the one the row was loaded with
	mock.ExpectExec(`UPDATE "invoices" SET .* WHERE id = \$\d+ AND version = \$\d+`).
		WithArgs(args...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveWithLock(context.Background(), invoice))

	// the written version becomes the baseline for the next locked save
	assert.Equal(t, 2, invoice.LoadedVersion())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormInvoiceRepository_SaveWithLock_Conflict(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormInvoiceRepository(db)

	invoiceID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(invoiceID, 1).
		WillReturnRows(invoiceRows(invoiceID, "SENT", time.Now().AddDate(0, 1, 0)))

	invoice, err := repo.FindByID(context.Background(), invoiceID)
	require.NoError(t, err)
	require.NoError(t, invoice.MarkViewed())

	// the row was changed by someone else since the load
	mock.ExpectExec(`UPDATE "invoices" SET .* WHERE id = .* AND version = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SaveWithLock(context.Background(), invoice)

	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	// the baseline stays at the load-time version so a reload can retry
	assert.Equal(t, 1, invoice.LoadedVersion())
	assert.NoError(t, mock.ExpectationsWereMet())
}
