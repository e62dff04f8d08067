package entity

import "time"

// BankDetails is where a user wants payouts sent.
type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountOwner  string `json:"accountOwner"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	UPIID         string `json:"upiId"`
}

// User mirrors the `users` PostgreSQL table schema.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
	Bank         BankDetails
	CreatedAt    time.Time
}
