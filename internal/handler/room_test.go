package handler

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetspace/room-booking/internal/repository"
)

func newRoomHandler(t *testing.T) (*RoomHandler, sqlmock.Sqlmock) {
	t.Helper()
	pool, mock := newMockPool(t)
	return NewRoomHandler(testCfg(), repository.NewRoomRepo(pool), pool), mock
}

func TestCreateRoomRequiresName(t *testing.T) {
	h, _ := newRoomHandler(t)
	e := echo.New()

	rec, c := doJSON(e, http.MethodPost, "/products", `{"capacity":4}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name is required", errField(t, rec))
}

func TestCreateRoomRejectsZeroCapacity(t *testing.T) {
	h, _ := newRoomHandler(t)
	e := echo.New()

	rec, c := doJSON(e, http.MethodPost, "/products", `{"name":"Board Room","capacity":0}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "capacity must be at least 1", errField(t, rec))
}

func TestCreateRoomDefaultsCapacity(t *testing.T) {
	h, mock := newRoomHandler(t)
	e := echo.New()

	mock.ExpectExec("INSERT INTO rooms").
		WithArgs("Board Room", uint32(1), nil).
		WillReturnResult(sqlmock.NewResult(4, 1))

	rec, c := doJSON(e, http.MethodPost, "/products", `{"name":"Board Room"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"capacity":1`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRoomNotFound(t *testing.T) {
	h, mock := newRoomHandler(t)
	e := echo.New()

	mock.ExpectExec("UPDATE rooms").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, name, capacity, description FROM rooms").
		WithArgs(uint64(9)).
		WillReturnError(sql.ErrNoRows)

	rec, c := doJSON(e, http.MethodPut, "/products/9", `{"name":"Ghost Room"}`)
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "room not found", errField(t, rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoomsWithDateFiltersByAvailability(t *testing.T) {
	h, mock := newRoomHandler(t)
	e := echo.New()

	mock.ExpectQuery("NOT EXISTS").
		WillReturnRows(sqlmock.
			NewRows([]string{"id", "name", "capacity", "description"}).
			AddRow(2, "Focus Room", 4, nil))

	rec, c := doJSON(e, http.MethodGet, "/products?date=2099-03-11", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Focus Room")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoomsRejectsBadDate(t *testing.T) {
	h, _ := newRoomHandler(t)
	e := echo.New()

	rec, c := doJSON(e, http.MethodGet, "/products?date=tomorrow", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid date", errField(t, rec))
}

func TestDeleteRoom(t *testing.T) {
	h, mock := newRoomHandler(t)
	e := echo.New()

	mock.ExpectExec("DELETE FROM rooms").
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, c := doJSON(e, http.MethodDelete, "/products/4", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
