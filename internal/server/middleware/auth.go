package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// CookieName carries the tenant token for browser clients.
	CookieName = "wagebook_token"

	companyIDKey = "company_id"
	tokenIssuer  = "wagebook"
)

// TenantClaims identifies the company a request acts for.
type TenantClaims struct {
	CompanyID string `json:"company_id"`
	jwt.RegisteredClaims
}

// CreateToken signs an HS256 tenant token for companyID valid for ttl.
func CreateToken(secret []byte, companyID primitive.ObjectID, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("empty jwt secret")
	}
	now := time.Now()
	claims := TenantClaims{
		CompanyID: companyID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(tokenStr string, secret []byte) (*TenantClaims, error) {
	claims := &TenantClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// bearerOrCookie extracts the raw token from the Authorization header or,
// when the header is absent, from the tenant cookie.
func bearerOrCookie(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie == "" {
			return "", false
		}
		return cookie, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Tenant rejects requests without a valid tenant token and stores the
// company id for handlers.
func Tenant(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerOrCookie(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
			return
		}

		claims, err := parseToken(tokenStr, secret)
		if err != nil {
			message := "invalid or expired token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				message = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, NewErrorResponse(message))
			return
		}

		companyID, err := primitive.ObjectIDFromHex(claims.CompanyID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, NewErrorResponse("invalid or expired token"))
			return
		}

		c.Set(companyIDKey, companyID)
		c.Next()
	}
}

// CompanyID returns the tenant set by Tenant.
func CompanyID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(companyIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}
