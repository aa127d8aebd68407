package app

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/handler"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/sw"
)

type Server struct {
	router *mux.Router
	worker *sw.Worker
}

func NewServer(sessionHandler *handler.SessionHandler, chatHandler *handler.ChatHandler, relay http.Handler, worker *sw.Worker, webDir string) *Server {
	router := mux.NewRouter()

	sessionHandler.RegisterRoutes(router)
	chatHandler.RegisterRoutes(router)

	router.Handle("/ws", relay)

	// The static shell is just files; the cache controller in front of
	// the router decides whether they come from cache or from here.
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(webDir)))

	return &Server{router: router, worker: worker}
}

func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	)

	h := cors(s.router)
	if s.worker != nil {
		h = s.worker.Handler(h)
	}
	return handlers.LoggingHandler(os.Stdout, h)
}

func (s *Server) Run(port string) {
	srv := &http.Server{
		Handler:      s.Handler(),
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
