package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/register-share-api/internal/models"
)

// March 3rd 2024 is a Sunday; March 3rd 2025 is a Monday.
const (
	yearWithSundayThird = 2024
	yearWithWeekday     = 2025
)

func newTestRegister(year int) *Register {
	cls := NewClass("Grade 5-A")
	return NewRegister(cls, year)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth("March", 2025))
	assert.Equal(t, 30, DaysInMonth("April", 2025))
	assert.Equal(t, 29, DaysInMonth("February", 2024))
	assert.Equal(t, 28, DaysInMonth("February", 2025))
	assert.Equal(t, 0, DaysInMonth("Smarch", 2025))
}

func TestAdvanceCyclesThroughAllStates(t *testing.T) {
	reg := newTestRegister(yearWithWeekday)
	studentID := reg.Class.Students[0].ID

	require.Equal(t, models.AttendanceStatus(""), reg.Status("March", studentID, 3))

	assert.Equal(t, models.AttendancePresent, reg.Advance("March", studentID, 3))
	assert.Equal(t, models.AttendanceAbsent, reg.Advance("March", studentID, 3))
	assert.Equal(t, models.AttendanceStatus(""), reg.Advance("March", studentID, 3))

	// Unmarked means no stored entry, not a stored zero value.
	_, exists := reg.Class.Attendance["March"][studentID][3]
	assert.False(t, exists)

	// The cycle repeats and never produces any other value.
	seen := map[models.AttendanceStatus]bool{}
	for i := 0; i < 9; i++ {
		seen[reg.Advance("March", studentID, 3)] = true
	}
	assert.Len(t, seen, 3)
}

func TestAdvanceIsNoOpOnSundays(t *testing.T) {
	reg := newTestRegister(yearWithSundayThird)
	studentID := reg.Class.Students[0].ID

	require.True(t, IsSunday(3, "March", yearWithSundayThird))
	assert.Equal(t, models.AttendanceStatus(""), reg.Advance("March", studentID, 3))
	assert.Empty(t, reg.Class.Attendance["March"])

	// Same holds for any prior status that was forced onto the cell.
	reg.Class.Attendance["March"] = models.ClassAttendance{
		studentID: {3: models.AttendancePresent},
	}
	assert.Equal(t, models.AttendancePresent, reg.Advance("March", studentID, 3))
	assert.Equal(t, models.AttendancePresent, reg.Status("March", studentID, 3))
}

func TestAdvanceIsNoOpOnExplicitHolidays(t *testing.T) {
	reg := newTestRegister(yearWithWeekday)
	studentID := reg.Class.Students[0].ID

	reg.ToggleHoliday("March", 3)
	assert.Equal(t, models.AttendanceStatus(""), reg.Advance("March", studentID, 3))

	// Removing the flag makes the day markable again.
	reg.ToggleHoliday("March", 3)
	assert.Equal(t, models.AttendancePresent, reg.Advance("March", studentID, 3))
}

func TestAdvanceIsNoOpForViewers(t *testing.T) {
	reg := newTestRegister(yearWithWeekday)
	reg.ReadOnly = true
	studentID := reg.Class.Students[0].ID

	assert.Equal(t, models.AttendanceStatus(""), reg.Advance("March", studentID, 3))
	assert.Empty(t, reg.Class.Attendance)
}

func TestAdvanceIgnoresOutOfRangeDays(t *testing.T) {
	reg := newTestRegister(yearWithWeekday)
	studentID := reg.Class.Students[0].ID

	assert.Equal(t, models.AttendanceStatus(""), reg.Advance("April", studentID, 31))
	assert.Equal(t, models.AttendanceStatus(""), reg.Advance("March", studentID, 0))
	assert.Empty(t, reg.Class.Attendance)
}

func TestToggleHolidayPreservesRecordedMarks(t *testing.T) {
	reg := newTestRegister(yearWithWeekday)
	studentID := reg.Class.Students[0].ID

	reg.Advance("March", studentID, 4) // P
	reg.ToggleHoliday("March", 4)

	assert.True(t, reg.IsHoliday("March", 4))
	assert.Equal(t, models.AttendancePresent, reg.Status("March", studentID, 4))
	assert.Equal(t, Stats{}, reg.Stats("March", studentID))

	reg.ToggleHoliday("March", 4)
	assert.Equal(t, Stats{Presents: 1}, reg.Stats("March", studentID))
}

func TestStatsScenarioGradeFiveA(t *testing.T) {
	reg := newTestRegister(yearWithWeekday)
	require.Len(t, reg.Class.Students, 5)

	reg.Advance("March", "1", 3)
	assert.Equal(t, Stats{Presents: 1, Absents: 0}, reg.Stats("March", "1"))

	reg.Advance("March", "1", 3)
	assert.Equal(t, Stats{Presents: 0, Absents: 1}, reg.Stats("March", "1"))

	reg.Advance("March", "1", 3)
	assert.Equal(t, Stats{Presents: 0, Absents: 0}, reg.Stats("March", "1"))
}

func TestStatsNeverCountsHolidaysEvenWithForcedRecords(t *testing.T) {
	reg := newTestRegister(yearWithSundayThird)
	studentID := reg.Class.Students[0].ID

	reg.Class.Attendance["March"] = models.ClassAttendance{
		studentID: {
			3: models.AttendancePresent, // Sunday
			4: models.AttendanceAbsent,
		},
	}
	reg.ToggleHoliday("March", 4)

	assert.Equal(t, Stats{}, reg.Stats("March", studentID))
}

func TestAddStudentAssignsZeroPaddedRoll(t *testing.T) {
	reg := newTestRegister(yearWithWeekday)

	s := reg.AddStudent("Farah Khan")
	assert.Equal(t, "06", s.RollNo)
	assert.NotEmpty(t, s.ID)
	assert.Len(t, reg.Class.Students, 6)
}

func TestRemoveStudentLeavesAttendanceUnreachable(t *testing.T) {
	reg := newTestRegister(yearWithWeekday)
	studentID := reg.Class.Students[0].ID
	reg.Advance("March", studentID, 4)

	reg.RemoveStudent(studentID)
	assert.Len(t, reg.Class.Students, 4)
	// Entries are not tombstoned; they simply stop being reachable through
	// the roster.
	assert.Contains(t, reg.Class.Attendance["March"], studentID)
}
