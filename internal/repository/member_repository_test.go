package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDecideArtistActivatesShow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMemberRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
	mock.ExpectQuery("SELECT id FROM show_members").
		WithArgs(uint64(5), uint64(9), "ARTIST").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectExec("UPDATE show_members SET decision").
		WithArgs(true, uint64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Activation predicate re-runs inside the same transaction.
	mock.ExpectQuery("SELECT status, venue_decision FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "venue_decision"}).AddRow("PENDING", true))
	mock.ExpectQuery("SELECT id, member_id, member_type, position, decision FROM show_members").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "member_type", "position", "decision"}).
			AddRow(21, 9, "ARTIST", "HEADLINER", true).
			AddRow(22, 10, "ARTIST", nil, true))
	mock.ExpectQuery("SELECT band_id, artist_id, decision FROM show_member_consensus").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"band_id", "artist_id", "decision"}))
	mock.ExpectExec("UPDATE shows SET status").
		WithArgs("ACTIVE", uint64(5), "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	activated, err := repo.DecideArtist(context.Background(), 5, 9, true)
	if err != nil {
		t.Fatalf("DecideArtist: %v", err)
	}
	if !activated {
		t.Fatal("activated = false, want true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecideArtistDeclineSkipsActivation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMemberRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
	mock.ExpectQuery("SELECT id FROM show_members").
		WithArgs(uint64(5), uint64(9), "ARTIST").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectExec("UPDATE show_members SET decision").
		WithArgs(false, uint64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	activated, err := repo.DecideArtist(context.Background(), 5, 9, false)
	if err != nil {
		t.Fatalf("DecideArtist: %v", err)
	}
	if activated {
		t.Fatal("activated = true for a decline")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecideArtistNotInvited(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMemberRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
	mock.ExpectQuery("SELECT id FROM show_members").
		WithArgs(uint64(5), uint64(99), "ARTIST").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err = repo.DecideArtist(context.Background(), 5, 99, true)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecideOnActiveShow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMemberRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("ACTIVE"))
	mock.ExpectRollback()

	_, err = repo.DecideArtist(context.Background(), 5, 9, true)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDecideBandMemberIncompleteConsensus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewMemberRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("PENDING"))
	mock.ExpectQuery("SELECT id FROM show_member_consensus").
		WithArgs(uint64(5), uint64(3), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
	mock.ExpectExec("UPDATE show_member_consensus SET decision").
		WithArgs(true, uint64(41)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT status, venue_decision FROM shows").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "venue_decision"}).AddRow("PENDING", true))
	mock.ExpectQuery("SELECT id, member_id, member_type, position, decision FROM show_members").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "member_type", "position", "decision"}).
			AddRow(20, 3, "BAND", nil, false))
	mock.ExpectQuery("SELECT band_id, artist_id, decision FROM show_member_consensus").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"band_id", "artist_id", "decision"}).
			AddRow(3, 9, true).
			AddRow(3, 10, false))
	mock.ExpectCommit()

	activated, err := repo.DecideBandMember(context.Background(), 5, 3, 9, true)
	if err != nil {
		t.Fatalf("DecideBandMember: %v", err)
	}
	if activated {
		t.Fatal("activated with a dissenting band member")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
