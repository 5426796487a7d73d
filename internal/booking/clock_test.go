package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/reserva/internal/booking"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "09:00", want: 540},
		{in: "00:00", want: 0},
		{in: "23:59", want: 1439},
		{in: "9:05", want: 545},
		{in: "9h30", want: 570},
		{in: "9h", want: 540},
		{in: "14h", want: 840},
		{in: "14H15", want: 855},
		{in: " 10:30 ", want: 630},
		{in: "", wantErr: true},
		{in: "930", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "-1:00", wantErr: true},
		{in: "ten:30", wantErr: true},
		{in: "10hxx", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := booking.ParseClock(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00:00", booking.FormatClock(0))
	assert.Equal(t, "09:05", booking.FormatClock(545))
	assert.Equal(t, "15:00", booking.FormatClock(900))
	assert.Equal(t, "23:59", booking.FormatClock(1439))
}

func TestClockRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"00:00", "09:30", "18:00", "23:59"} {
		min, err := booking.ParseClock(s)
		require.NoError(t, err)
		assert.Equal(t, s, booking.FormatClock(min))
	}
}
