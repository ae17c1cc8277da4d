package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the payload of access tokens issued by the account service.
type JWTClaims struct {
	UserID       string   `json:"user_id"`
	Role         UserRole `json:"role"`
	Email        string   `json:"email,omitempty"`
	FullName     string   `json:"full_name,omitempty"`
	EnterpriseID string   `json:"enterprise_id,omitempty"`
	DesignerID   string   `json:"designer_id,omitempty"`
	jwt.RegisteredClaims
}

// ActorID returns the identifier used for ownership checks. Designers and
// enterprises may carry a profile id distinct from their user id.
func (c *JWTClaims) ActorID() string {
	if c == nil {
		return ""
	}
	switch c.Role {
	case RoleDesigner:
		if c.DesignerID != "" {
			return c.DesignerID
		}
	case RoleEnterprise:
		if c.EnterpriseID != "" {
			return c.EnterpriseID
		}
	}
	return c.UserID
}
