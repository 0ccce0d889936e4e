package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"traderhub-api/pkg/uid"
)

const cartIDKey contextKey = "cart_id"

// CartCookieName is the anonymous storefront cart session cookie.
const CartCookieName = "shop_cart"

func signCartID(secret, id string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

// CartSession assigns every storefront request a cart session id via a
// signed cookie, creating one on first contact. Tampered cookies get a
// fresh id.
func CartSession(secret string, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := ""
			if c, err := r.Cookie(CartCookieName); err == nil {
				parts := strings.SplitN(c.Value, ".", 2)
				if len(parts) == 2 && uid.IsValid(parts[0]) &&
					hmac.Equal([]byte(parts[1]), []byte(signCartID(secret, parts[0]))) {
					cartID = parts[0]
				}
			}
			if cartID == "" {
				cartID = uid.New()
				http.SetCookie(w, &http.Cookie{
					Name:     CartCookieName,
					Value:    cartID + "." + signCartID(secret, cartID),
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), cartIDKey, cartID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCartID returns the cart session id from the context.
func GetCartID(ctx context.Context) string {
	id, _ := ctx.Value(cartIDKey).(string)
	return id
}
