package models

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies what a user is allowed to do. It is assigned at
// registration and never changes afterwards.
type Role string

const (
	// RoleTeacher can author and generate assignments and review submissions.
	RoleTeacher Role = "teacher"
	// RoleStudent can view active assignments and submit solutions.
	RoleStudent Role = "student"
)

// ParseRole normalises and validates a role string.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// IsTeacher reports whether the role grants teacher capabilities.
func (r Role) IsTeacher() bool { return r == RoleTeacher }

// IsStudent reports whether the role grants student capabilities.
func (r Role) IsStudent() bool { return r == RoleStudent }

func (r Role) String() string { return string(r) }

// User represents a registered teacher or student.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
