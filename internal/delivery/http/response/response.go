package response

import (
	"time"

	"github.com/user/price-tracker/internal/entity"
)

// TrackResponse is the result of a successful price lookup. Image is
// serialized as null when the page had none.
type TrackResponse struct {
	Price        string  `json:"price"`
	Title        string  `json:"title"`
	Image        *string `json:"image"`
	Timestamp    string  `json:"timestamp"`
	Success      bool    `json:"success"`
	CanonicalURL string  `json:"canonicalUrl,omitempty"`
}

func NewTrackResponse(s *entity.ProductSnapshot) TrackResponse {
	return TrackResponse{
		Price:        s.Price,
		Title:        s.Title,
		Image:        s.Image,
		Timestamp:    s.Timestamp(),
		Success:      true,
		CanonicalURL: s.CanonicalURL,
	}
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	IsAdmin     bool               `json:"isAdmin"`
	BankDetails entity.BankDetails `json:"bankDetails"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func NewUserResponse(u *entity.User, isAdmin bool) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		IsAdmin:     isAdmin,
		BankDetails: u.Bank,
		CreatedAt:   u.CreatedAt,
	}
}

type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type OrderResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserEmail string    `json:"userEmail,omitempty"`
	Title     string    `json:"title"`
	Price     string    `json:"price"`
	URL       string    `json:"url"`
	Image     *string   `json:"image"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		UserEmail: o.UserEmail,
		Title:     o.Title,
		Price:     o.Price,
		URL:       o.URL,
		Image:     o.Image,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func NewOrderList(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

type DashboardResponse struct {
	Pending int `json:"pending"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

func NewDashboardResponse(s entity.OrderSummary) DashboardResponse {
	return DashboardResponse{
		Pending: s.Pending,
		Success: s.Success,
		Failed:  s.Failed,
		Total:   s.Total(),
	}
}
