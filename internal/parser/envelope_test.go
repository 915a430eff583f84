package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Envelope
	}{
		{
			name: "simple",
			raw:  "You made a Card of SGD 15.00 to McDonald's on your a/c ending 1234 at 30 Dec 2025 12:00 PM. If unauthorised,UOB,2025-12-30T12:05:00+08:00,dinner",
			want: Envelope{
				BankText:  "You made a Card of SGD 15.00 to McDonald's on your a/c ending 1234 at 30 Dec 2025 12:00 PM. If unauthorised",
				Bank:      "UOB",
				Timestamp: "2025-12-30T12:05:00+08:00",
				Remarks:   "dinner",
			},
		},
		{
			name: "commas in bank text and remarks",
			raw:  "You made a PayNow transfer of SGD 1,234.56 to X at 1:44PM SGT, 27 Dec 25. If unauthorised, call UOB.,UOB,2025-12-28T15:57:31+08:00, Big, Payment",
			want: Envelope{
				BankText:  "You made a PayNow transfer of SGD 1,234.56 to X at 1:44PM SGT, 27 Dec 25. If unauthorised, call UOB.",
				Bank:      "UOB",
				Timestamp: "2025-12-28T15:57:31+08:00",
				Remarks:   "Big, Payment",
			},
		},
		{
			name: "empty remarks",
			raw:  "bank text,UOB,2025-12-28T15:57:31-05:00,",
			want: Envelope{BankText: "bank text", Bank: "UOB", Timestamp: "2025-12-28T15:57:31-05:00"},
		},
		{
			name: "remarks field omitted",
			raw:  "bank text,UOB,2025-12-28T15:57:31+08:00",
			want: Envelope{BankText: "bank text", Bank: "UOB", Timestamp: "2025-12-28T15:57:31+08:00"},
		},
		{
			name: "multiline bank text",
			raw:  "line one\nline two,UOB,2025-12-28T15:57:31+08:00,note",
			want: Envelope{BankText: "line one\nline two", Bank: "UOB", Timestamp: "2025-12-28T15:57:31+08:00", Remarks: "note"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decompose(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecompose_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no timestamp", "You made a Card of SGD 15.00,UOB,dinner"},
		{"naive timestamp", "text,UOB,2025-12-30T12:05:00,dinner"},
		{"utc designator is not an offset", "text,UOB,2025-12-30T12:05:00Z,dinner"},
		{"impossible date", "text,UOB,2025-13-45T12:05:00+08:00,dinner"},
		{"missing bank", "text,,2025-12-30T12:05:00+08:00,dinner"},
		{"missing bank text", ",UOB,2025-12-30T12:05:00+08:00,dinner"},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decompose(tc.raw)
			assert.ErrorIs(t, err, ErrInvalidEnvelope)
		})
	}
}

func TestEnvelopeString(t *testing.T) {
	env := Envelope{BankText: "text", Bank: "UOB", Timestamp: "2025-12-30T12:05:00+08:00", Remarks: "dinner"}

	got, err := Decompose(env.String())
	require.NoError(t, err)
	assert.Equal(t, env, got)
}
