// auth.go — middleware сессий по заголовку X-Token.
// SessionAuth разрешает токен в ID пользователя и кладёт его в контекст,
// RequireSession отклоняет запросы без сессии (401).
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/bigkaa/goartstore/files-module/internal/api/errors"
)

// TokenHeader — заголовок с токеном сессии.
const TokenHeader = "X-Token"

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyUserID — ID пользователя сессии в контексте запроса.
	ContextKeyUserID contextKey = "user_id"
	// contextKeySessionHolder — ячейка, через которую RequestLogger узнаёт пользователя.
	contextKeySessionHolder contextKey = "session_holder"
)

// SessionResolver — разрешение токена в пользователя.
// Реализуется service.SessionService.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (uuid.UUID, error)
}

// sessionHolder — ID пользователя, заполняемый ниже по цепочке middleware.
type sessionHolder struct {
	userID string
}

func withSessionHolder(ctx context.Context, h *sessionHolder) context.Context {
	return context.WithValue(ctx, contextKeySessionHolder, h)
}

// SessionAuth возвращает middleware, разрешающий X-Token.
// Запрос без сессии не отклоняется: маршруты с необязательной
// аутентификацией (скачивание) обрабатывают анонимный запрос сами.
func SessionAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if h, ok := r.Context().Value(contextKeySessionHolder).(*sessionHolder); ok {
				h.userID = userID.String()
			}
			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession отклоняет запрос без сессии ответом 401 Unauthorized.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFromContext(r.Context()) == uuid.Nil {
			apierrors.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext извлекает ID пользователя сессии.
// Возвращает uuid.Nil для анонимного запроса.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return id
}

// TokenFromRequest возвращает значение X-Token.
func TokenFromRequest(r *http.Request) string {
	return r.Header.Get(TokenHeader)
}
