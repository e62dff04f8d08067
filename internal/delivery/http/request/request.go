package request

import "github.com/user/price-tracker/internal/entity"

type TrackRequest struct {
	URL string `json:"url"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BankDetailsRequest accepts the fields either flat or nested under
// "bankDetails", as older dashboard builds send them.
type BankDetailsRequest struct {
	entity.BankDetails
	Nested *entity.BankDetails `json:"bankDetails,omitempty"`
}

// Details returns the nested details when present, the flat ones otherwise.
func (r BankDetailsRequest) Details() entity.BankDetails {
	if r.Nested != nil {
		return *r.Nested
	}
	return r.BankDetails
}

type CreateOrderRequest struct {
	UserID string  `json:"userId"`
	Title  string  `json:"title"`
	Price  string  `json:"price"`
	URL    string  `json:"url"`
	Image  *string `json:"image"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
