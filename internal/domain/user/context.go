package user

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
)

// PrincipalFromContext extracts the authenticated principal from JWT claims.
// Services call this instead of reading raw claim maps in every method.
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return Principal{}, ErrMissingCompanyClaim
	}

	userID, _ := claims["user_id"].(string)
	employeeID, _ := claims["employee_id"].(string)
	roleStr, _ := claims["role"].(string)

	return Principal{
		UserID:     userID,
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Role:       Role(roleStr),
	}, nil
}
