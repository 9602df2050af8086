package handler

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetspace/room-booking/internal/model"
	"github.com/meetspace/room-booking/internal/repository"
)

func newBookingHandler(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	pool, mock := newMockPool(t)
	return NewBookingHandler(testCfg(), repository.NewBookingRepo(pool), pool), mock
}

func setPrincipal(c echo.Context, p *model.Principal) {
	c.Set(principalKey, p)
}

// principalKey mirrors the context key the identity middleware uses.
const principalKey = "principal"

func TestAvailabilityRequiresParams(t *testing.T) {
	h, _ := newBookingHandler(t)
	e := echo.New()

	rec, c := doJSON(e, http.MethodGet, "/book/availability?room_id=1", "")
	require.NoError(t, h.Availability(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "room_id and date required", errField(t, rec))
}

func TestAvailabilityFreeDay(t *testing.T) {
	h, mock := newBookingHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT 1 FROM bookings").
		WillReturnError(sql.ErrNoRows)

	rec, c := doJSON(e, http.MethodGet, "/book/availability?room_id=1&date=2099-03-11", "")
	require.NoError(t, h.Availability(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available":true}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingForOtherUserForbidden(t *testing.T) {
	h, _ := newBookingHandler(t)
	e := echo.New()

	rec, c := doJSON(e, http.MethodPost, "/book",
		`{"room_id":1,"date":"2099-03-11","user_id":99}`)
	setPrincipal(c, &model.Principal{ID: 5, Role: "user"})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "users may only create bookings for themselves", errField(t, rec))
}

func TestCreateBookingConflict(t *testing.T) {
	h, mock := newBookingHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	rec, c := doJSON(e, http.MethodPost, "/book", `{"room_id":1,"date":"2099-03-11"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "room unavailable for selected date/time", errField(t, rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingNotFound(t *testing.T) {
	h, mock := newBookingHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT id, room_id, user_id").
		WithArgs(uint64(42)).
		WillReturnError(sql.ErrNoRows)

	rec, c := doJSON(e, http.MethodGet, "/book/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "booking not found", errField(t, rec))
}

func TestUpdateStatusRequiresStatus(t *testing.T) {
	h, _ := newBookingHandler(t)
	e := echo.New()

	rec, c := doJSON(e, http.MethodPatch, "/book/7/status", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status required", errField(t, rec))
}

func TestDeleteBookingNotOwner(t *testing.T) {
	h, mock := newBookingHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT user_id FROM bookings").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(99))

	rec, c := doJSON(e, http.MethodDelete, "/book/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	setPrincipal(c, &model.Principal{ID: 5, Role: "user"})
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", errField(t, rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBookingAsOwner(t *testing.T) {
	h, mock := newBookingHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT user_id FROM bookings").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(5))
	mock.ExpectExec("DELETE FROM bookings").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, c := doJSON(e, http.MethodDelete, "/book/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	setPrincipal(c, &model.Principal{ID: 5, Role: "user"})
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBookingAsAdmin(t *testing.T) {
	h, mock := newBookingHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT user_id FROM bookings").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(99))
	mock.ExpectExec("DELETE FROM bookings").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, c := doJSON(e, http.MethodDelete, "/book/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	setPrincipal(c, &model.Principal{ID: 1, Role: "admin"})
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
