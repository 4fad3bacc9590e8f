// Package attendance provides the Attendance Log: one present/absent mark
// per submission, dated by the server.
package attendance

import (
	"time"

	"posledger/internal/core/id"
	"posledger/internal/domain/catalogs/employee"
)

// Record is one attendance mark. Several marks for the same employee and
// day are allowed.
type Record struct {
	ID         id.ID     `db:"id" json:"id"`
	Date       time.Time `db:"date" json:"date"`
	EmployeeID id.ID     `db:"employee_id" json:"employeeId"`
	Present    bool      `db:"present" json:"present"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Sheet is the attendance page for one day: who can be marked and what
// was marked so far.
type Sheet struct {
	Date      time.Time            `json:"date"`
	Employees []*employee.Employee `json:"employees"`
	Records   []*Record            `json:"records"`
}
