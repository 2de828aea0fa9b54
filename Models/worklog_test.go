package Models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStopWorkLog(t *testing.T) {
	db := testDB(t)
	start := at(9, 0)

	log, err := StartWorkLog(db, 1, start)
	require.NoError(t, err)
	assert.True(t, log.IsActive)
	require.NotNil(t, log.StartTime)
	assert.True(t, log.Date.Equal(WorkDate(start)))

	stopped, err := StopWorkLog(db, 1, at(17, 30))
	require.NoError(t, err)
	assert.False(t, stopped.IsActive)
	assert.Nil(t, stopped.StartTime)
	assert.Equal(t, int64(8*3600+1800), stopped.TotalSeconds)
}

func TestStartWorkLogTwiceFails(t *testing.T) {
	db := testDB(t)

	_, err := StartWorkLog(db, 1, at(9, 0))
	require.NoError(t, err)

	_, err = StartWorkLog(db, 1, at(9, 5))
	assert.ErrorIs(t, err, ErrAlreadyClockedIn)
}

func TestStopWithoutActiveLogFails(t *testing.T) {
	db := testDB(t)

	_, err := StopWorkLog(db, 1, at(17, 0))
	assert.ErrorIs(t, err, ErrNotClockedIn)
}

func TestRestartAccumulatesSameDay(t *testing.T) {
	db := testDB(t)

	_, err := StartWorkLog(db, 1, at(9, 0))
	require.NoError(t, err)
	_, err = StopWorkLog(db, 1, at(10, 0))
	require.NoError(t, err)

	_, err = StartWorkLog(db, 1, at(14, 0))
	require.NoError(t, err)
	log, err := StopWorkLog(db, 1, at(15, 30))
	require.NoError(t, err)

	assert.Equal(t, int64(3600+5400), log.TotalSeconds)
}

func TestCloseStaleWorkLogs(t *testing.T) {
	db := testDB(t)

	_, err := StartWorkLog(db, 1, at(22, 0))
	require.NoError(t, err)

	// Next morning the nightly job runs; the forgotten clock-in is
	// capped at its own midnight.
	nextDay := time.Date(2024, 3, 2, 0, 5, 0, 0, time.UTC)
	closed, err := CloseStaleWorkLogs(db, nextDay)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	var log DailyWorkLog
	require.NoError(t, db.Where("user_id = ?", 1).First(&log).Error)
	assert.False(t, log.IsActive)
	assert.Equal(t, int64(2*3600), log.TotalSeconds)

	// Idempotent: nothing left to close.
	closed, err = CloseStaleWorkLogs(db, nextDay)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}
