package i18n

import "net/http"

const langCookie = "lang"

// Middleware picks the UI language for every request: an explicit ?lang=
// (remembered in a cookie), then the cookie, then Accept-Language, then
// the default.
func Middleware(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var lang string
			if q := r.URL.Query().Get("lang"); q != "" {
				lang = Match(q)
				http.SetCookie(w, &http.Cookie{
					Name:     langCookie,
					Value:    lang,
					Path:     "/",
					MaxAge:   365 * 24 * 3600,
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			} else {
				var cookie string
				if c, err := r.Cookie(langCookie); err == nil {
					cookie = c.Value
				}
				lang = Match(cookie, r.Header.Get("Accept-Language"))
			}
			next.ServeHTTP(w, r.WithContext(WithLocalizer(r.Context(), lang)))
		})
	}
}
