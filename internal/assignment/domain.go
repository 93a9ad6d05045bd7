package assignment

import "time"

// Course is a teachable unit within a department.
type Course struct {
	Code         string
	Name         string
	DepartmentID int64
}

// StaffMember is a managed staff account eligible for course assignments.
type StaffMember struct {
	Username     string
	FullName     string
	DepartmentID int64
}

// CourseAssignment links one staff member to one course.
type CourseAssignment struct {
	StaffUsername string
	CourseCode    string
	CreatedAt     time.Time
}
