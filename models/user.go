// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Managers run the branch and distribute goals; salespeople
// record sales and carry per-sprint goals.
const (
	RoleManager     = "manager"
	RoleSalesperson = "salesperson"
)

// User model
type User struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email               string             `json:"email" bson:"email"`
	Password            string             `json:"password,omitempty" bson:"password"`
	FullName            string             `json:"fullName" bson:"fullName"`
	Role                string             `json:"role" bson:"role"`
	IsActive            bool               `json:"isActive" bson:"isActive"`
	Phone               string             `json:"phone,omitempty" bson:"phone,omitempty"`
	SalesGoal           Money              `json:"salesGoal" bson:"salesGoal"`
	CreditsGoal         int                `json:"creditsGoal" bson:"creditsGoal"`
	FCMToken            string             `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	TelegramChatID      int64              `json:"telegramChatId,omitempty" bson:"telegramChatId,omitempty"`
	GoogleID            string             `json:"googleId,omitempty" bson:"googleId,omitempty"`
	ProfilePic          string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	ResetPasswordToken  string             `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetTokenExpiresAt time.Time          `json:"-" bson:"resetTokenExpiresAt,omitempty"`
	LastActivityAt      time.Time          `json:"lastActivityAt" bson:"lastActivityAt"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// LoginRequest for email/password login
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// GoogleLoginRequest carries a Google ID token from the web client
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// SignupRequest creates a salesperson account (manager only)
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=manager salesperson"`
	Phone    string `json:"phone"`
}

// LoginResponse returned on successful authentication
type LoginResponse struct {
	Token         string `json:"token"`
	RememberToken string `json:"rememberToken,omitempty"`
	User          User   `json:"user"`
}

// GoalDistributionRequest: branch-wide totals to split across salespeople
type GoalDistributionRequest struct {
	TotalSalesGoal   string `json:"totalSalesGoal" validate:"required"`
	TotalCreditsGoal int    `json:"totalCreditsGoal" validate:"gte=0"`
}

// GoalUpdate is one salesperson's new goal pair inside a distribution batch.
type GoalUpdate struct {
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	SalesGoal   Money              `json:"salesGoal" bson:"salesGoal"`
	CreditsGoal int                `json:"creditsGoal" bson:"creditsGoal"`
}

// UpdateGoalsRequest: direct manager edit of one salesperson's goals
type UpdateGoalsRequest struct {
	SalesGoal   string `json:"salesGoal" validate:"required"`
	CreditsGoal int    `json:"creditsGoal" validate:"gte=0"`
}

// PasswordResetRequest asks for a reset email
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm carries the emailed token and the new password
type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}
