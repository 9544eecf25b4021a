package core

import (
	"encoding/json"
	"time"
)

type UserType string

const (
	UserTypeJobSeeker UserType = "job_seeker"
	UserTypeEmployer  UserType = "employer"
)

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewing   ApplicationStatus = "reviewing"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationAccepted    ApplicationStatus = "accepted"
)

func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationPending,
		ApplicationReviewing,
		ApplicationShortlisted,
		ApplicationRejected,
		ApplicationAccepted,
	}
}

func (s ApplicationStatus) Valid() bool {
	for _, candidate := range ApplicationStatuses() {
		if s == candidate {
			return true
		}
	}
	return false
}

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// The structs below mirror the backend serializers. Nested relations are
// kept raw since their shape depends on the endpoint.

type User struct {
	ID           int      `json:"id"`
	Email        string   `json:"email"`
	Username     string   `json:"username"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	UserType     UserType `json:"user_type"`
	PhoneNumber  string   `json:"phone_number,omitempty"`
	ProfileImage string   `json:"profile_image,omitempty"`
}

type Company struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Skill struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Vacancy struct {
	ID              int             `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Requirements    string          `json:"requirements"`
	Company         json.RawMessage `json:"company,omitempty"`
	Category        json.RawMessage `json:"category,omitempty"`
	Skills          json.RawMessage `json:"skills,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	JobType         JobType         `json:"job_type"`
	SalaryMin       json.Number     `json:"salary_min"`
	SalaryMax       json.Number     `json:"salary_max"`
	Location        string          `json:"location"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Resume struct {
	ID         int             `json:"id"`
	Title      string          `json:"title"`
	File       string          `json:"file"`
	Skills     json.RawMessage `json:"skills,omitempty"`
	Experience string          `json:"experience"`
	Education  string          `json:"education"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Application struct {
	ID          int               `json:"id"`
	Vacancy     json.RawMessage   `json:"vacancy,omitempty"`
	Resume      json.RawMessage   `json:"resume,omitempty"`
	CoverLetter string            `json:"cover_letter"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type Contact struct {
	Address        string      `json:"address"`
	Phone          string      `json:"phone"`
	Email          string      `json:"email"`
	Latitude       json.Number `json:"latitude"`
	Longitude      json.Number `json:"longitude"`
	WorkingHours   string      `json:"working_hours"`
	AdditionalInfo string      `json:"additional_info,omitempty"`
}
