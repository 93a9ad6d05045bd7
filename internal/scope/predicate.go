// Package scope narrows data queries to the rows a caller may see. The
// resolver produces a predicate value; it never runs the query itself, so the
// analytical engine behind the dashboards stays free to compile the predicate
// into whatever query technology it uses.
package scope

// Columns the resolver constrains. These are the warehouse's organizational
// axes, not arbitrary user input.
const (
	ColumnFacultyID    = "faculty_id"
	ColumnDepartmentID = "department_id"
	ColumnCourseCode   = "course_code"
	ColumnStudentKey   = "student_key"
)

// Predicate is the closed set of scope outcomes. It is a value object:
// recomputed per request, never persisted.
type Predicate interface {
	isPredicate()
}

// Unrestricted grants row-level access to everything the coarse permission
// grant already allowed.
type Unrestricted struct{}

// Denied grants access to nothing. Absence of configuration resolves here,
// never to Unrestricted.
type Denied struct {
	Reason string
}

// Equals constrains a single column to one value.
type Equals struct {
	Column string
	Value  string
}

// In constrains a single column to a set of values.
type In struct {
	Column string
	Values []string
}

func (Unrestricted) isPredicate() {}
func (Denied) isPredicate()       {}
func (Equals) isPredicate()       {}
func (In) isPredicate()           {}
