package dashboard

import (
	"errors"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
)

const phoneDigits = 10

type StoreForm struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	PhoneNumber      string `json:"phone_number"`
	Email            string `json:"email"`
	PhysicalLocation string `json:"physical_location"`
}

// Validate trims every field and normalizes the phone number to its digits.
func (f *StoreForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Email = strings.TrimSpace(f.Email)
	f.PhysicalLocation = strings.TrimSpace(f.PhysicalLocation)

	v := &core.ValidationError{}

	if f.Name == "" {
		v.Add("name", "is required")
	}

	validateEmail(v, f.Email)

	phone := strings.TrimSpace(f.PhoneNumber)
	f.PhoneNumber = digitsOnly(phone)
	switch {
	case phone == "":
		v.Add("phone_number", "is required")
	case len(f.PhoneNumber) != phoneDigits:
		v.Add("phone_number", "must contain exactly 10 digits")
	}

	return v.Err()
}

func (f *StoreForm) store() *core.Store {
	return &core.Store{
		Name:             f.Name,
		Description:      f.Description,
		PhoneNumber:      f.PhoneNumber,
		Email:            f.Email,
		PhysicalLocation: f.PhysicalLocation,
	}
}

type UserForm struct {
	Email           string `json:"email"`
	IsShopper       bool   `json:"is_shopper"`
	IsBusinessOwner bool   `json:"is_business_owner"`
}

func (f *UserForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)

	v := &core.ValidationError{}
	validateEmail(v, f.Email)

	if !f.IsShopper && !f.IsBusinessOwner {
		v.Add("role", "choose shopper, business owner or both")
	}

	return v.Err()
}

func validateEmail(v *core.ValidationError, email string) {
	switch {
	case email == "":
		v.Add("email", "is required")
	case !govalidator.IsEmail(email):
		v.Add("email", "is not a valid email address")
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// parseAddress validates a hex address input under field.
func parseAddress(v *core.ValidationError, field, s string) common.Address {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		v.Add(field, "is required")
	case !common.IsHexAddress(s):
		v.Add(field, "is not a valid address")
	default:
		return common.HexToAddress(s)
	}

	return common.Address{}
}

func parseAmount(v *core.ValidationError, field, s string) string {
	d, err := core.ParseAmount(field, s)
	if err != nil {
		var fe *core.ValidationError
		if errors.As(err, &fe) {
			for k, msg := range fe.Fields {
				v.Add(k, msg)
			}
		}
		return ""
	}

	return d.String()
}
