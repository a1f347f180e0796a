// Package auth holds the shared-secret gate in front of card generation.
//
// The gate is a plain equality check against one configured value. It keeps
// casual visitors out of the upload form and is not a security boundary:
// there is no hashing, no rate limiting and no session.
package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PromptMessage is shown whenever the gate rejects a password.
const PromptMessage = "Please enter the correct password to proceed."

// HeaderName carries the password on API calls that have no form body.
const HeaderName = "X-Access-Password"

var ErrUnauthorized = errors.New("incorrect password")

type Gate struct {
	secret string
}

func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Check rejects anything but the configured secret, including the empty string.
func (g *Gate) Check(candidate string) error {
	if candidate == "" || candidate != g.secret {
		return ErrUnauthorized
	}
	return nil
}

// Middleware aborts with 401 unless the request carries the secret in the
// X-Access-Password header or the "password" form field.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		candidate := c.GetHeader(HeaderName)
		if candidate == "" {
			candidate = c.PostForm("password")
		}
		if err := g.Check(candidate); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": PromptMessage})
			return
		}
		c.Next()
	}
}
