package domain

import "time"

type Profile struct {
	UserID       int64     `json:"user"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Type         Role      `json:"type"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	File         string    `json:"file"`
	Location     string    `json:"location"`
	Tel          string    `json:"tel"`
	Description  string    `json:"description"`
	WorkingHours string    `json:"working_hours"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfilePatch carries partial profile updates. Nil means "leave unchanged".
// Email writes through to the users row.
type ProfilePatch struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	File         *string `json:"file"`
	Location     *string `json:"location"`
	Tel          *string `json:"tel"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours"`
	Email        *string `json:"email"`
}

// ProfileDTO is the full detail view returned by GET/PATCH /profile/{id}/.
type ProfileDTO struct {
	User         int64     `json:"user"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	File         string    `json:"file"`
	Location     string    `json:"location"`
	Tel          string    `json:"tel"`
	Description  string    `json:"description"`
	WorkingHours string    `json:"working_hours"`
	Type         Role      `json:"type"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// BusinessProfileDTO is the list view for business profiles: the full field
// set minus email and created_at.
type BusinessProfileDTO struct {
	User         int64  `json:"user"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	File         string `json:"file"`
	Location     string `json:"location"`
	Tel          string `json:"tel"`
	Description  string `json:"description"`
	WorkingHours string `json:"working_hours"`
	Type         Role   `json:"type"`
}

// CustomerProfileDTO is the reduced list view for customer profiles.
type CustomerProfileDTO struct {
	User      int64  `json:"user"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	File      string `json:"file"`
	Type      Role   `json:"type"`
}

func (p *Profile) ToDTO() ProfileDTO {
	return ProfileDTO{
		User:         p.UserID,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		File:         p.File,
		Location:     p.Location,
		Tel:          p.Tel,
		Description:  p.Description,
		WorkingHours: p.WorkingHours,
		Type:         p.Type,
		Email:        p.Email,
		CreatedAt:    p.CreatedAt,
	}
}

func (p *Profile) ToBusinessDTO() BusinessProfileDTO {
	return BusinessProfileDTO{
		User:         p.UserID,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		File:         p.File,
		Location:     p.Location,
		Tel:          p.Tel,
		Description:  p.Description,
		WorkingHours: p.WorkingHours,
		Type:         p.Type,
	}
}

func (p *Profile) ToCustomerDTO() CustomerProfileDTO {
	return CustomerProfileDTO{
		User:      p.UserID,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		File:      p.File,
		Type:      p.Type,
	}
}
