package page

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/pennywise/pennywise/pkg/user"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

type ProfileAPI interface {
	Profile(ctx context.Context) (user.UserDTO, error)
	UpdateProfile(ctx context.Context, update user.ProfileUpdateRequest) (user.UserDTO, error)
}

type ProfileForm struct {
	Email           string
	FirstName       string
	LastName        string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

func (f ProfileForm) Validate() error {
	if _, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil {
		return invalid("email %q is not valid", f.Email)
	}
	if f.NewPassword == "" && f.ConfirmPassword == "" {
		return nil
	}
	if f.CurrentPassword == "" {
		return invalid("current password is required to set a new password")
	}
	if len(f.NewPassword) < minPasswordLength {
		return invalid("new password must have at least %d characters", minPasswordLength)
	}
	if len(f.NewPassword) > maxPasswordLength {
		return invalid("new password must have at most %d bytes", maxPasswordLength)
	}
	if f.NewPassword != f.ConfirmPassword {
		return invalid("new password and confirmation do not match")
	}
	return nil
}

func (f ProfileForm) request() user.ProfileUpdateRequest {
	update := user.ProfileUpdateRequest{
		Email:     strings.TrimSpace(f.Email),
		FirstName: f.FirstName,
		LastName:  f.LastName,
	}
	if f.NewPassword != "" {
		update.CurrentPassword = f.CurrentPassword
		update.NewPassword = f.NewPassword
	}
	return update
}

type ProfilePage struct {
	api ProfileAPI

	mu         sync.Mutex
	profile    user.UserDTO
	err        error
	submitting bool
}

func NewProfilePage(api ProfileAPI) *ProfilePage {
	return &ProfilePage{api: api}
}

func (p *ProfilePage) Load(ctx context.Context) error {
	profile, err := p.api.Profile(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.err = fmt.Errorf("failed to load profile: %w", err)
		return p.err
	}
	p.profile = profile
	p.err = nil
	return nil
}

func (p *ProfilePage) Profile() user.UserDTO {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

// Form is pre-filled with the loaded profile; password fields start empty.
func (p *ProfilePage) Form() ProfileForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProfileForm{Email: p.profile.Email, FirstName: p.profile.FirstName, LastName: p.profile.LastName}
}

func (p *ProfilePage) Submit(ctx context.Context, form ProfileForm) error {
	p.mu.Lock()
	if p.submitting {
		p.mu.Unlock()
		return ErrSubmitInProgress
	}
	p.submitting = true
	p.mu.Unlock()

	var err error
	var updated user.UserDTO
	if err = form.Validate(); err == nil {
		updated, err = p.api.UpdateProfile(ctx, form.request())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.submitting = false
	if err != nil {
		p.err = err
		return err
	}
	p.profile = updated
	p.err = nil
	return nil
}

func (p *ProfilePage) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *ProfilePage) DismissError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = nil
}
