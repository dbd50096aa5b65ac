package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lukev/catan2p/internal/hostserver"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	flag.Parse()

	hub := hostserver.NewHub()
	go hub.Run()

	registry := hostserver.NewRegistry()
	handler := hostserver.NewHandler(hub, registry)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.Use(corsMiddleware)

	log.Printf("catan2p host server starting on %s", *addr)
	if err := http.ListenAndServe(*addr, router); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
