package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mryabova/salon-booking-service/internal/api/handlers"
)

// HeaderAdminToken заголовок аутентификации админских маршрутов
const HeaderAdminToken = "X-Admin-Token"

const msgUnauthorized = "требуется токен администратора"

// AdminAuth проверяет заголовок X-Admin-Token у админских маршрутов
// Сравнение токенов выполняется за константное время
func AdminAuth(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderAdminToken)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
