package route

import (
	"net/http"

	"social_auth/internal/handler"
	"social_auth/internal/request"
	"social_auth/internal/session"
	"social_auth/middleware"

	"github.com/gorilla/mux"
)

func SetupRoute(auth *handler.AuthHandler, notification *handler.NotificationHandler, store *session.Store, guard session.Guard) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery, middleware.RequestLogger)

	//social login
	r.HandleFunc("/auth/{provider}/redirect", auth.Redirect).Methods(http.MethodGet)
	r.HandleFunc("/auth/{provider}/callback", auth.Callback).Methods(http.MethodGet)

	r.HandleFunc("/login", auth.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/logout", auth.Logout).Methods(http.MethodPost)

	requireLogin := middleware.RequireLogin(store, guard)
	r.Handle("/", requireLogin(http.HandlerFunc(auth.Home))).Methods(http.MethodGet)
	r.Handle("/home", requireLogin(http.HandlerFunc(auth.Home))).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.Handle("/notifications", request.ValidateDeleteNotification(http.HandlerFunc(notification.Delete))).Methods(http.MethodDelete)
	return r
}
