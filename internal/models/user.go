package models

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
)

// User is the identity record. The email is globally unique and the
// password only ever exists as a bcrypt hash.
type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FirstName    string   `gorm:"not null" json:"first_name"`
	LastName     string   `gorm:"not null" json:"last_name"`
	Gender       string   `gorm:"type:varchar(10)" json:"gender"`
	Role         UserRole `gorm:"type:varchar(20);default:'customer'" json:"role"`
	IsVerified   bool     `gorm:"default:false" json:"is_verified"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
