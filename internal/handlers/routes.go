package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers the page, API and static routes. metrics may be nil.
func NewRouter(h *Handler, metrics http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/generate", h.Generate).Methods("POST")
	r.HandleFunc("/save_story", h.SaveStory).Methods("POST")
	r.HandleFunc("/stories", h.ListStories).Methods("GET")
	r.HandleFunc("/story/{id:[0-9]+}", h.ViewStory).Methods("GET")
	r.HandleFunc("/healthz", h.Health).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stories", h.APIListStories).Methods("GET")
	api.HandleFunc("/stories/{id:[0-9]+}", h.APIGetStory).Methods("GET")

	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir))))
	return r
}
