package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeTime(t *testing.T) {
	cases := []struct {
		raw  string
		want TimeCategory
	}{
		{"12:00 AM", TimeMorning},
		{"8:00 AM", TimeMorning},
		{"11:59 AM", TimeMorning},
		{"12:00 PM", TimeAfternoon},
		{"1:00 PM", TimeAfternoon},
		{"4:59 PM", TimeAfternoon},
		{"5:00 PM", TimeEvening},
		{"11:45 PM", TimeEvening},
		{"9:30 pm", TimeEvening},
		{"  7:15 am ", TimeMorning},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CategorizeTime(tc.raw), "raw=%q", tc.raw)
	}
}

func TestCategorizeTime_Malformed(t *testing.T) {
	for _, raw := range []string{"", "noon", "8:00", "8:00 XM", "PM", "one pm"} {
		assert.Equal(t, TimeUnknown, CategorizeTime(raw), "raw=%q", raw)
	}
}
