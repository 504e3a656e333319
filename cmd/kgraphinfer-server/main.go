package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"

	kgraphinfer "github.com/vital-ai/kgraphinfer"
	"github.com/vital-ai/kgraphinfer/internal/predicate"
	"github.com/vital-ai/kgraphinfer/internal/value"
)

var allowedOrigins = []string{
	"http://localhost:5173",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// queryRequest is the request body for POST /query: a DSL query plus an
// optional set of ad hoc filter predicates, each a named fixed tuple set
// (spec.md §6.4 predicate contract made concrete over HTTP).
type queryRequest struct {
	DSL    string                `json:"dsl"`
	Tuples map[string][][]string `json:"tuples"`
}

func buildEngine(req queryRequest) (*kgraphinfer.Engine, error) {
	e := kgraphinfer.New()
	for name, rows := range req.Tuples {
		data := make([][]value.Value, len(rows))
		for i, row := range rows {
			tuple := make([]value.Value, len(row))
			for j, cell := range row {
				tuple[j] = value.NewString(cell)
			}
			data[i] = tuple
		}
		if err := e.Register(name, predicate.NewFilter(data)); err != nil {
			return nil, fmt.Errorf("registering predicate %q: %w", name, err)
		}
	}
	return e, nil
}

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	flag.Parse()

	mux := http.NewServeMux()

	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.DSL == "" {
			writeError(w, http.StatusBadRequest, "missing field: dsl")
			return
		}

		e, err := buildEngine(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		as, err := e.Execute(context.Background(), req.DSL)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		b, err := json.Marshal(as)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	})

	addr := fmt.Sprintf(":%d", *port)
	fmt.Printf("kgraphinfer server listening on %s\n", addr)
	if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
		fmt.Fprintf(flag.CommandLine.Output(), "server error: %v\n", err)
	}
}
