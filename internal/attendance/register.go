package attendance

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/register-share-api/internal/models"
)

// SampleStudents seeds a newly created class so the register is usable
// before the first roster edit.
var SampleStudents = []models.Student{
	{ID: "1", Name: "Aarav Patel", RollNo: "01"},
	{ID: "2", Name: "Bianca Rossi", RollNo: "02"},
	{ID: "3", Name: "Charlie Davis", RollNo: "03"},
	{ID: "4", Name: "Diya Sharma", RollNo: "04"},
	{ID: "5", Name: "Ethan Hunt", RollNo: "05"},
}

// Stats summarises countable marks for one student in one month.
type Stats struct {
	Presents int `json:"presents"`
	Absents  int `json:"absents"`
}

// Register wraps a SchoolClass with the calendar year its months resolve
// against and the caller's write authority. A viewer-mode register is
// read-only: every mutating call is a silent no-op.
type Register struct {
	Class    *models.SchoolClass
	Year     int
	ReadOnly bool
}

// NewClass creates an empty class with the sample roster.
func NewClass(name string) *models.SchoolClass {
	students := make([]models.Student, len(SampleStudents))
	copy(students, SampleStudents)
	return &models.SchoolClass{
		ID:         uuid.NewString(),
		Name:       name,
		Students:   students,
		Attendance: map[string]models.ClassAttendance{},
		Holidays:   map[string][]int{},
		CreatedAt:  time.Now().UnixMilli(),
	}
}

// NewRegister binds a class to a year with teacher authority.
func NewRegister(cls *models.SchoolClass, year int) *Register {
	return &Register{Class: cls, Year: year}
}

// IsHoliday reports whether the day is excluded from marking and counting,
// either because it is a Sunday or because it was explicitly toggled.
func (r *Register) IsHoliday(month string, day int) bool {
	if IsSunday(day, month, r.Year) {
		return true
	}
	for _, d := range r.Class.Holidays[month] {
		if d == day {
			return true
		}
	}
	return false
}

// Advance cycles the (student, day) cell through
// Unmarked -> Present -> Absent -> Unmarked. Calls on holidays, on days out
// of range, or without write authority leave all state untouched and return
// the current value.
func (r *Register) Advance(month, studentID string, day int) models.AttendanceStatus {
	current := r.Status(month, studentID, day)
	if r.ReadOnly || r.IsHoliday(month, day) {
		return current
	}
	if day < 1 || day > DaysInMonth(month, r.Year) {
		return current
	}

	monthAttendance := r.Class.Attendance[month]
	if monthAttendance == nil {
		monthAttendance = models.ClassAttendance{}
		r.Class.Attendance[month] = monthAttendance
	}
	record := monthAttendance[studentID]
	if record == nil {
		record = models.AttendanceRecord{}
		monthAttendance[studentID] = record
	}

	switch current {
	case models.AttendancePresent:
		record[day] = models.AttendanceAbsent
		return models.AttendanceAbsent
	case models.AttendanceAbsent:
		// Unmarked is the absence of an entry, not a stored value.
		delete(record, day)
		return ""
	default:
		record[day] = models.AttendancePresent
		return models.AttendancePresent
	}
}

// Status returns the stored mark for a cell, or "" when unmarked.
func (r *Register) Status(month, studentID string, day int) models.AttendanceStatus {
	return r.Class.Attendance[month][studentID][day]
}

// ToggleHoliday flips the day's membership in the month's explicit holiday
// set. Recorded marks under the flag are suppressed, not destroyed, so
// removing the flag later restores them to view and counting.
func (r *Register) ToggleHoliday(month string, day int) {
	if r.ReadOnly {
		return
	}
	current := r.Class.Holidays[month]
	for i, d := range current {
		if d == day {
			r.Class.Holidays[month] = append(current[:i], current[i+1:]...)
			return
		}
	}
	if r.Class.Holidays == nil {
		r.Class.Holidays = map[string][]int{}
	}
	r.Class.Holidays[month] = append(current, day)
}

// Stats recounts presents and absents for a student across the month,
// skipping Sundays and explicit holidays even when a mark exists there.
// No memoization: attendance data is mutable between calls.
func (r *Register) Stats(month, studentID string) Stats {
	record := r.Class.Attendance[month][studentID]
	stats := Stats{}
	if record == nil {
		return stats
	}
	for day := 1; day <= DaysInMonth(month, r.Year); day++ {
		if r.IsHoliday(month, day) {
			continue
		}
		switch record[day] {
		case models.AttendancePresent:
			stats.Presents++
		case models.AttendanceAbsent:
			stats.Absents++
		}
	}
	return stats
}

// AddStudent appends a student with the next zero-padded roll number and
// returns it. No-op (zero Student) without write authority.
func (r *Register) AddStudent(name string) models.Student {
	if r.ReadOnly {
		return models.Student{}
	}
	student := models.Student{
		ID:     uuid.NewString(),
		Name:   name,
		RollNo: fmt.Sprintf("%02d", len(r.Class.Students)+1),
	}
	r.Class.Students = append(r.Class.Students, student)
	return student
}

// RemoveStudent drops the student from the roster. Attendance entries keyed
// by the removed id simply become unreachable; there are no tombstones.
func (r *Register) RemoveStudent(studentID string) {
	if r.ReadOnly {
		return
	}
	for i, s := range r.Class.Students {
		if s.ID == studentID {
			r.Class.Students = append(r.Class.Students[:i], r.Class.Students[i+1:]...)
			return
		}
	}
}
