package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCommitVenueTermsSecondCommitRefused(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewShowRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.status, s.venue_decision").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "venue_decision", "owner_id", "capacity"}).
			AddRow("PENDING", true, 4, 150))
	mock.ExpectRollback()

	_, _, _, err = repo.CommitVenueTerms(context.Background(), VenueTerms{
		ShowID: 7, OwnerID: 4, TicketPriceCents: 2000, VenuePercentage: 20,
	})
	if !errors.Is(err, ErrNegotiationClosed) {
		t.Fatalf("err = %v, want ErrNegotiationClosed", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommitVenueTermsWrongOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewShowRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.status, s.venue_decision").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "venue_decision", "owner_id", "capacity"}).
			AddRow("PENDING", false, 4, 150))
	mock.ExpectRollback()

	_, _, _, err = repo.CommitVenueTerms(context.Background(), VenueTerms{
		ShowID: 7, OwnerID: 99, TicketPriceCents: 2000, VenuePercentage: 20,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A lineup of one solo artist plus a two-piece band gets three guarantee
// rows, each carrying the floored pool split. The dissenting band member
// keeps the show pending.
func TestCommitVenueTermsExpandsGuarantees(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewShowRepo(db)

	// capacity 100 at $20 with a 20% venue cut: pool 160000 over
	// three artists is 53333 each.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.status, s.venue_decision").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "venue_decision", "owner_id", "capacity"}).
			AddRow("PENDING", false, 4, 100))
	mock.ExpectExec("SET venue_decision = 1").
		WithArgs(int64(2000), 20, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, member_id, member_type, position, decision FROM show_members").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "member_type", "position", "decision"}).
			AddRow(31, 9, "ARTIST", "HEADLINER", true).
			AddRow(32, 3, "BAND", nil, false))
	mock.ExpectQuery("SELECT band_id, artist_id, decision FROM show_member_consensus").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"band_id", "artist_id", "decision"}).
			AddRow(3, 11, true).
			AddRow(3, 12, false))
	mock.ExpectExec("INSERT INTO artist_guarantees").
		WithArgs(uint64(7), uint64(9), int64(53333)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO artist_guarantees").
		WithArgs(uint64(7), uint64(11), int64(53333)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO artist_guarantees").
		WithArgs(uint64(7), uint64(12), int64(53333)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	// Reload of the aggregate after commit.
	mock.ExpectQuery("SELECT id, promoter_id, venue_id, status").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "promoter_id", "venue_id", "status", "venue_decision",
			"preferred_date", "preferred_time", "confirmed_date", "confirmed_time",
			"ticket_price_cents", "venue_percentage", "created_at",
		}).AddRow(7, 2, 4, "PENDING", true,
			"2026-09-12", "20:00", "2026-09-12", "20:00",
			2000, 20, sampleTime()))
	mock.ExpectQuery("SELECT id, member_id, member_type, position, decision FROM show_members").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "member_type", "position", "decision"}).
			AddRow(31, 9, "ARTIST", "HEADLINER", true).
			AddRow(32, 3, "BAND", nil, false))
	mock.ExpectQuery("SELECT band_id, artist_id, decision FROM show_member_consensus").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"band_id", "artist_id", "decision"}).
			AddRow(3, 11, true).
			AddRow(3, 12, false))
	mock.ExpectQuery("SELECT payee_artist_id, amount_cents FROM artist_guarantees").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"payee_artist_id", "amount_cents"}).
			AddRow(9, 53333).
			AddRow(11, 53333).
			AddRow(12, 53333))

	show, sched, activated, err := repo.CommitVenueTerms(context.Background(), VenueTerms{
		ShowID: 7, OwnerID: 4, TicketPriceCents: 2000, VenuePercentage: 20,
	})
	if err != nil {
		t.Fatalf("CommitVenueTerms: %v", err)
	}
	if activated {
		t.Fatal("activated with a dissenting band member")
	}
	if sched == nil || sched.PerArtistCents != 53333 {
		t.Fatalf("sched = %+v, want per-artist 53333", sched)
	}
	if len(show.Guarantees) != 3 {
		t.Fatalf("len(Guarantees) = %d, want 3", len(show.Guarantees))
	}
	if show.TicketPriceCents == nil || *show.TicketPriceCents != 2000 {
		t.Fatalf("TicketPriceCents = %v, want 2000", show.TicketPriceCents)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommitVenueTermsActivates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewShowRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.status, s.venue_decision").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "venue_decision", "owner_id", "capacity"}).
			AddRow("PENDING", false, 4, 150))
	mock.ExpectExec("SET venue_decision = 1").
		WithArgs(int64(2000), 20, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, member_id, member_type, position, decision FROM show_members").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "member_type", "position", "decision"}).
			AddRow(31, 9, "ARTIST", nil, true))
	mock.ExpectQuery("SELECT band_id, artist_id, decision FROM show_member_consensus").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"band_id", "artist_id", "decision"}))
	mock.ExpectExec("INSERT INTO artist_guarantees").
		WithArgs(uint64(7), uint64(9), int64(240000)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE shows SET status").
		WithArgs("ACTIVE", uint64(7), "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("SELECT id, promoter_id, venue_id, status").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "promoter_id", "venue_id", "status", "venue_decision",
			"preferred_date", "preferred_time", "confirmed_date", "confirmed_time",
			"ticket_price_cents", "venue_percentage", "created_at",
		}).AddRow(7, 2, 4, "ACTIVE", true,
			"2026-09-12", "20:00", "2026-09-12", "20:00",
			2000, 20, sampleTime()))
	mock.ExpectQuery("SELECT id, member_id, member_type, position, decision FROM show_members").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "member_type", "position", "decision"}).
			AddRow(31, 9, "ARTIST", nil, true))
	mock.ExpectQuery("SELECT band_id, artist_id, decision FROM show_member_consensus").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"band_id", "artist_id", "decision"}))
	mock.ExpectQuery("SELECT payee_artist_id, amount_cents FROM artist_guarantees").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"payee_artist_id", "amount_cents"}).
			AddRow(9, 240000))

	show, sched, activated, err := repo.CommitVenueTerms(context.Background(), VenueTerms{
		ShowID: 7, OwnerID: 4, TicketPriceCents: 2000, VenuePercentage: 20,
	})
	if err != nil {
		t.Fatalf("CommitVenueTerms: %v", err)
	}
	if !activated {
		t.Fatal("activated = false, want true")
	}
	if sched == nil || sched.PerArtistCents != 240000 {
		t.Fatalf("sched = %+v, want per-artist 240000", sched)
	}
	if show.Status != "ACTIVE" {
		t.Fatalf("Status = %q, want ACTIVE", show.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
