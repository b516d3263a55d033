package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/gigstage/show-booking/internal/model"
)

func TestApplyDuplicateIdentity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewBacklineRepo(db)

	// A solo artist with a live solo application is blocked from
	// applying again as solo.
	mock.ExpectExec("INSERT INTO backline_applications").
		WithArgs(uint64(5), uint64(11), model.MemberTypeArtist, model.BacklineStatusPending).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '5-11-ARTIST'"))

	_, err = repo.Apply(context.Background(), 5, 11, model.MemberTypeArtist)
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("err = %v, want ErrAlreadyApplied", err)
	}

	// Applying through one of the artist's bands is independent and
	// still succeeds.
	mock.ExpectExec("INSERT INTO backline_applications").
		WithArgs(uint64(5), uint64(30), model.MemberTypeBand, model.BacklineStatusPending).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery("SELECT a.id, a.show_id, a.applicant_id").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "show_id", "applicant_id", "applicant_type", "status", "created_at", "votes"}).
			AddRow(2, 5, 30, model.MemberTypeBand, model.BacklineStatusPending, sampleTime(), 0))

	app, err := repo.Apply(context.Background(), 5, 30, model.MemberTypeBand)
	if err != nil {
		t.Fatalf("band Apply: %v", err)
	}
	if app.ID != 2 || app.ApplicantType != model.MemberTypeBand || app.VoteCount != 0 {
		t.Fatalf("unexpected application: %+v", app)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApplyUnknownShow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewBacklineRepo(db)

	mock.ExpectExec("INSERT INTO backline_applications").
		WithArgs(uint64(999), uint64(11), model.MemberTypeArtist, model.BacklineStatusPending).
		WillReturnError(errors.New("Error 1452 (23000): Cannot add or update a child row"))

	_, err = repo.Apply(context.Background(), 999, 11, model.MemberTypeArtist)
	if !errors.Is(err, ErrShowNotFound) {
		t.Fatalf("err = %v, want ErrShowNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBacklineVoteDedup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewBacklineRepo(db)

	mock.ExpectExec("INSERT IGNORE INTO backline_votes").
		WithArgs(uint64(2), uint64(42)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT IGNORE INTO backline_votes").
		WithArgs(uint64(2), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	added, err := repo.Vote(context.Background(), 2, 42)
	if err != nil || !added {
		t.Fatalf("first Vote = (%v, %v), want (true, nil)", added, err)
	}
	added, err = repo.Vote(context.Background(), 2, 42)
	if err != nil || added {
		t.Fatalf("second Vote = (%v, %v), want (false, nil)", added, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
