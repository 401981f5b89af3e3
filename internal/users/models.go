package users

import "time"

// User is a ticket-buying attendee. The Events list is the staff
// schedule: events this user may scan tickets for.
type User struct {
	UserID          string   `json:"userID" gorm:"primaryKey;size:64"`
	Email           string   `json:"email" gorm:"size:255;uniqueIndex"`
	FirstName       string   `json:"firstName" gorm:"size:128"`
	LastName        string   `json:"lastName" gorm:"size:128"`
	PasswordHash    string   `json:"-" gorm:"size:128"`
	TelephoneNumber string   `json:"telephoneNumber" gorm:"size:32"`
	Events          []string `json:"events" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// Organizer is an event-organizer account.
type Organizer struct {
	OrganizerID    string `json:"organizerID" gorm:"primaryKey;size:64"`
	Email          string `json:"email" gorm:"size:255;uniqueIndex"`
	OrganizerName  string `json:"organizerName" gorm:"size:255"`
	OrganizerPhone string `json:"organizerPhone" gorm:"size:32"`
	PasswordHash   string `json:"-" gorm:"size:128"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Organizer) TableName() string {
	return "organizers"
}

// Request/response DTOs

type SignUpRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	TelephoneNumber string `json:"telephoneNumber"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OrganizerSignUpRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	OrganizerName  string `json:"organizerName" binding:"required"`
	OrganizerPhone string `json:"organizerPhone"`
}

type UpdateProfileRequest struct {
	UserID          string `json:"userID" binding:"required"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	TelephoneNumber string `json:"telephoneNumber"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type AuthResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}
