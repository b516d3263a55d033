package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSalesForPendingShow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewTicketRepo(db)

	mock.ExpectQuery("SELECT s.status, v.capacity").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "capacity", "sold"}).
			AddRow("PENDING", 200, 0))

	_, err = repo.SalesForShow(context.Background(), 7)
	if !errors.Is(err, ErrShowNotActive) {
		t.Fatalf("err = %v, want ErrShowNotActive", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSalesForActiveShow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewTicketRepo(db)

	mock.ExpectQuery("SELECT s.status, v.capacity").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "capacity", "sold"}).
			AddRow("ACTIVE", 200, 200))

	info, err := repo.SalesForShow(context.Background(), 7)
	if err != nil {
		t.Fatalf("SalesForShow: %v", err)
	}
	if info.TicketsSold != 200 || info.Capacity != 200 || !info.IsSoldOut {
		t.Fatalf("info = %+v, want sold out at 200/200", info)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewTicketRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.status, s.ticket_price_cents, v.capacity").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "price", "capacity", "sold"}).
			AddRow("ACTIVE", 2000, 200, 10))
	mock.ExpectExec("INSERT INTO ticket_orders").
		WithArgs(uint64(7), uint64(42), uint32(2), int64(4000), "tok_abc", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectCommit()

	order, err := repo.RecordOrder(context.Background(), 7, 42, 2, "tok_abc")
	if err != nil {
		t.Fatalf("RecordOrder: %v", err)
	}
	if order.ID != 31 || order.AmountCents != 4000 || order.OrderRef == "" {
		t.Fatalf("unexpected order: %+v", order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordOrderOverCapacity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewTicketRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.status, s.ticket_price_cents, v.capacity").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "price", "capacity", "sold"}).
			AddRow("ACTIVE", 2000, 200, 199))
	mock.ExpectRollback()

	_, err = repo.RecordOrder(context.Background(), 7, 42, 2, "tok_abc")
	if !errors.Is(err, ErrSoldOut) {
		t.Fatalf("err = %v, want ErrSoldOut", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordOrderOnPendingShow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewTicketRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.status, s.ticket_price_cents, v.capacity").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "price", "capacity", "sold"}).
			AddRow("PENDING", nil, 200, 0))
	mock.ExpectRollback()

	_, err = repo.RecordOrder(context.Background(), 7, 42, 1, "tok_abc")
	if !errors.Is(err, ErrShowNotActive) {
		t.Fatalf("err = %v, want ErrShowNotActive", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
