package dto

import (
	"time"

	"posledger/internal/core/id"
	"posledger/internal/domain/attendance"
)

// MarkAttendanceRequest records one present/absent mark for today.
type MarkAttendanceRequest struct {
	EmployeeID string `json:"employeeId" binding:"required,uuid"`
	Present    *bool  `json:"present" binding:"required"`
}

// EmployeeUUID returns the parsed employee id.
func (r MarkAttendanceRequest) EmployeeUUID() id.ID {
	v, _ := id.Parse(r.EmployeeID)
	return v
}

// AttendanceQuery selects marks by day or by employee.
type AttendanceQuery struct {
	Date       string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	EmployeeID string `form:"employeeId" binding:"omitempty,uuid"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

// RecordResponse is an attendance mark on the wire.
type RecordResponse struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	EmployeeID string    `json:"employeeId"`
	Present    bool      `json:"present"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromRecord maps a mark.
func FromRecord(r *attendance.Record) RecordResponse {
	return RecordResponse{
		ID:         r.ID.String(),
		Date:       formatDate(r.Date),
		EmployeeID: r.EmployeeID.String(),
		Present:    r.Present,
		CreatedAt:  r.CreatedAt,
	}
}

// FromRecords maps marks.
func FromRecords(records []*attendance.Record) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i, r := range records {
		out[i] = FromRecord(r)
	}
	return out
}

// SheetResponse is the attendance page of one day.
type SheetResponse struct {
	Date      string             `json:"date"`
	Employees []EmployeeResponse `json:"employees"`
	Records   []RecordResponse   `json:"records"`
}

// FromSheet maps a sheet.
func FromSheet(s *attendance.Sheet) SheetResponse {
	resp := SheetResponse{
		Date:      formatDate(s.Date),
		Employees: make([]EmployeeResponse, len(s.Employees)),
		Records:   FromRecords(s.Records),
	}
	for i, e := range s.Employees {
		resp.Employees[i] = FromEmployee(e)
	}
	return resp
}
