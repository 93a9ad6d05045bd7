// Package org exposes the organisational catalogue backing scoped roles:
// the faculties and departments materialised in the warehouse dimensions.
package org

// Faculty is a row of dim_faculty.
type Faculty struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Department is a row of dim_department.
type Department struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	FacultyID int64  `json:"faculty_id"`
}
