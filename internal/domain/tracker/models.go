package tracker

import (
	"time"
)

// Storage keys, kept compatible with the browser client's local storage layout
const (
	KeyFavorites    = "jobseeker-favorites"
	KeyApplications = "jobseeker-applications"
	KeyResume       = "jobseeker-resume"
)

// StatusApplied is the initial status of every application
const StatusApplied = "applied"

// DefaultExportTab is the sheet tab used when none is given
const DefaultExportTab = "Applications"

// MaxResumeSize is the largest accepted résumé file in bytes
const MaxResumeSize = 5 * 1024 * 1024

// Application records a job the user applied to
type Application struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	JobTitle   string    `json:"job_title"`
	Company    string    `json:"company"`
	AppliedAt  time.Time `json:"applied_at"`
	Status     string    `json:"status"`
	ResumeName string    `json:"resume_name"`
}

// Resume is metadata for the uploaded résumé; the file content is not stored
type Resume struct {
	Name       string    `json:"name" validate:"required,max=255"`
	Size       int64     `json:"size" validate:"gt=0,lte=5242880"`
	Type       string    `json:"type" validate:"required,oneof=application/pdf application/msword application/vnd.openxmlformats-officedocument.wordprocessingml.document"`
	UploadedAt time.Time `json:"uploaded_at"`
}
