package calendar

import (
	"reflect"
	"testing"
	"time"
)

func TestAvailableSlots(t *testing.T) {
	now := time.Date(2025, time.March, 18, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		selected   time.Time
		candidates []string
		want       Availability
	}{
		{
			name:       "today filters past slots",
			selected:   date(2025, time.March, 18),
			candidates: []string{"12:00", "14:00"},
			want: Availability{
				{Label: "12:00", Selectable: false},
				{Label: "14:00", Selectable: true},
			},
		},
		{
			name:       "slot equal to now is closed",
			selected:   date(2025, time.March, 18),
			candidates: []string{"13:00", "13:01"},
			want: Availability{
				{Label: "13:00", Selectable: false},
				{Label: "13:01", Selectable: true},
			},
		},
		{
			name:       "nothing selected",
			selected:   time.Time{},
			candidates: []string{"12:00", "20:00"},
			want: Availability{
				{Label: "12:00", Selectable: false},
				{Label: "20:00", Selectable: false},
			},
		},
		{
			name:       "past day",
			selected:   date(2025, time.March, 17),
			candidates: []string{"20:00"},
			want: Availability{
				{Label: "20:00", Selectable: false},
			},
		},
		{
			name:       "future day",
			selected:   date(2025, time.March, 19),
			candidates: []string{"00:00", "12:00"},
			want: Availability{
				{Label: "00:00", Selectable: true},
				{Label: "12:00", Selectable: true},
			},
		},
		{
			name:       "malformed label",
			selected:   date(2025, time.March, 19),
			candidates: []string{"noon", "25:00", "14:00"},
			want: Availability{
				{Label: "noon", Selectable: false},
				{Label: "25:00", Selectable: false},
				{Label: "14:00", Selectable: true},
			},
		},
		{
			name:       "no candidates",
			selected:   date(2025, time.March, 19),
			candidates: nil,
			want:       Availability{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableSlots(tt.selected, tt.candidates, now)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AvailableSlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailability_Helpers(t *testing.T) {
	a := Availability{
		{Label: "12:00", Selectable: false},
		{Label: "14:00", Selectable: true},
		{Label: "16:30", Selectable: true},
	}

	if a.Selectable("12:00") {
		t.Error("Selectable(12:00) = true")
	}
	if !a.Selectable("16:30") {
		t.Error("Selectable(16:30) = false")
	}
	if a.Selectable("09:00") {
		t.Error("Selectable(unknown) = true")
	}
	if got, want := a.Open(), []string{"14:00", "16:30"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Open() = %v, want %v", got, want)
	}
}

func TestEngine_Slots(t *testing.T) {
	now := time.Date(2025, time.March, 18, 17, 0, 0, 0, time.UTC)
	e := NewEngine(now)

	if open := e.Slots(DefaultSlots, now).Open(); len(open) != 0 {
		t.Errorf("open slots without selection: %v", open)
	}

	e.Select(now)
	got := e.Slots(DefaultSlots, now).Open()
	if want := []string{"18:30", "20:00"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Open() = %v, want %v", got, want)
	}
}
