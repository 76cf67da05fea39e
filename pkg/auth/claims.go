package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role identifies the kind of actor behind a token.
type Role string

const (
	// RoleAdmin may upload price files and clear custom prices.
	RoleAdmin Role = "admin"
	// RoleCustomer is a storefront shopper; custom pricing applies only
	// when the account also carries a CustomerID.
	RoleCustomer Role = "customer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCustomer:
		return true
	}
	return false
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	// CustomerID is the administrator-assigned pricing identity; nil means
	// no custom pricing applies to this account.
	CustomerID *int64
	Role       Role
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID `json:"user_id"`
	CustomerID *int64    `json:"customer_id,omitempty"`
	Role       Role      `json:"role"`
	jwt.RegisteredClaims
}
