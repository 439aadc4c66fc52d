package export

// DayColumn describes one day column of a month register.
type DayColumn struct {
	Day     int
	Holiday bool
}

// RegisterRow is one student line of the sheet.
type RegisterRow struct {
	Roll     string
	Name     string
	Marks    map[int]string
	Presents int
	Absents  int
}

// RegisterSheet is a fully resolved month register ready for rendering.
// Holiday columns carry no marks regardless of stored attendance.
type RegisterSheet struct {
	Title string
	Month string
	Days  []DayColumn
	Rows  []RegisterRow
}
