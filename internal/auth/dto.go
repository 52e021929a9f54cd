package auth

import (
	"strings"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/core/common/validation"
)

// LoginDTO accepts either a password or a PIN. The PIN path serves the till.
type LoginDTO struct {
	Phone    string `json:"phone"`
	Password string `json:"password,omitempty"`
	PIN      string `json:"pin,omitempty"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d *LoginDTO) Normalize() {
	d.Phone = strings.TrimSpace(d.Phone)
}

func (d LoginDTO) Validate() error {
	if err := validation.ValidatePhone(d.Phone); err != nil {
		return err
	}
	if d.Password == "" && d.PIN == "" {
		return internal.NewValidationFieldError("password", "password or pin is required", internal.ErrCodeValidationFailed)
	}
	if d.PIN != "" {
		if err := validation.ValidatePIN(d.PIN); err != nil {
			return err
		}
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if strings.TrimSpace(d.RefreshToken) == "" {
		return internal.NewValidationFieldError("refresh_token", "refresh_token is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
