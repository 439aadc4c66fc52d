package models

// SnapshotSchemaVersion is stamped on snapshots written by this server.
// Entries published by older app versions may omit holidays, messages or the
// lock flag entirely; Normalize fills those in on read.
const SnapshotSchemaVersion = 1

// TeacherSenderID is the sender identity that carries owner authority over a
// shared class. Viewers use a per-device random session id instead.
const TeacherSenderID = "teacher"

// AttendanceStatus is the stored per-day mark. Unmarked days have no map
// entry at all, so the zero value never appears in a snapshot.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "P"
	AttendanceAbsent  AttendanceStatus = "A"
)

// Valid reports whether the status is a storable value.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// Student is one roster entry of a class.
type Student struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	RollNo string `json:"rollNo"`
}

// AttendanceRecord maps day-of-month (1..N) to a status for one student.
type AttendanceRecord map[int]AttendanceStatus

// ClassAttendance maps student id to that student's month record.
type ClassAttendance map[string]AttendanceRecord

// SchoolClass is the aggregate root owned by the teacher's device.
// JSON field names match the wire format the browser app established.
type SchoolClass struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Students   []Student                  `json:"students"`
	Attendance map[string]ClassAttendance `json:"attendance"`
	Holidays   map[string][]int           `json:"holidays,omitempty"`
	CreatedAt  int64                      `json:"createdAt"`
	ShareCode  string                     `json:"shareCode,omitempty"`

	Messages     []ChatMessage `json:"messages,omitempty"`
	IsChatLocked bool          `json:"isChatLocked,omitempty"`
}

// ShareSnapshot is the registry-stored form of a class: the class itself plus
// registry bookkeeping fields.
type ShareSnapshot struct {
	SchoolClass
	SchemaVersion int   `json:"schemaVersion,omitempty"`
	SharedAt      int64 `json:"_sharedAt,omitempty"`
}

// Normalize fills defaults for fields that older snapshot versions omit.
// Every read path goes through this before the snapshot is used.
func (s *ShareSnapshot) Normalize() {
	if s.SchemaVersion == 0 {
		s.SchemaVersion = SnapshotSchemaVersion
	}
	if s.Students == nil {
		s.Students = []Student{}
	}
	if s.Attendance == nil {
		s.Attendance = map[string]ClassAttendance{}
	}
	if s.Holidays == nil {
		s.Holidays = map[string][]int{}
	}
	if s.Messages == nil {
		s.Messages = []ChatMessage{}
	}
}

// SavedCode is a remembered {code, name} pair for quick re-join.
type SavedCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
