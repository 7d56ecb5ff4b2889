package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{seasonID}/matches", handler.ListSeasonMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatchDetail)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalToken string) {
	mux.Handle("POST /v1/internal/results/import", RequireInternalToken(internalToken, http.HandlerFunc(handler.ImportResult)))
	mux.Handle("POST /v1/internal/matches/{matchID}/forfeit", RequireInternalToken(internalToken, http.HandlerFunc(handler.DeclareForfeit)))
	mux.Handle("POST /v1/internal/pools/seed", RequireInternalToken(internalToken, http.HandlerFunc(handler.SeedPool)))
	mux.Handle("POST /v1/internal/resync", RequireInternalToken(internalToken, http.HandlerFunc(handler.RunResync)))
}

func registerCallbackRoutes(mux *http.ServeMux, handler *Handler, callbackToken string) {
	mux.Handle("POST /v1/callbacks/riftbridge", RequireCallbackToken(callbackToken, http.HandlerFunc(handler.RiftbridgeCallback)))
}
