package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTimeProvider(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "valid timezone Europe/Moscow", timezone: "Europe/Moscow"},
		{name: "empty timezone defaults to Local", timezone: ""},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider().Location())
		})
	}
}

func TestStartOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	// 22:30 UTC is 01:30 next day in Moscow (UTC+3)
	ts := time.Date(2025, 2, 1, 22, 30, 0, 0, time.UTC)
	got := StartOfDay(ts, loc)

	assert.Equal(t, time.Date(2025, 2, 2, 0, 0, 0, 0, loc), got)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), StartOfDay(ts, time.UTC))
}

func TestTimeProvider_ParseDate(t *testing.T) {
	tp := &TimeProvider{location: time.UTC}
	today := tp.Today()

	got, err := tp.ParseDate("2025-02-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC), got)

	got, err = tp.ParseDate("today")
	require.NoError(t, err)
	assert.Equal(t, today, got)

	got, err = tp.ParseDate("yesterday")
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, -1), got)

	got, err = tp.ParseDate("-13d")
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, 0, -13), got)

	_, err = tp.ParseDate("14/02/2025")
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "40s", FormatDuration(40*time.Second))
	assert.Equal(t, "12m", FormatDuration(12*time.Minute))
	assert.Equal(t, "3h 05m", FormatDuration(3*time.Hour+5*time.Minute))
	assert.Equal(t, "49h 00m", FormatDuration(49*time.Hour))
}
