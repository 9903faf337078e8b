package debug

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flowlang/flc/log"
)

// NewServer builds the HTTP handler for "flc debug --http" (SPEC_FULL.md
// §7): a small read-only API over a finished Map, for an external
// debugger or a shell script to query without parsing log output.
//
//	GET /breakpoints            -> every recorded breakpoint
//	GET /breakpoints/{nodeID}   -> one node's breakpoint
//	GET /lines/{file}/{line}    -> node ids occupying that source line
func NewServer(m *Map) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/breakpoints", handleAll(m)).Methods(http.MethodGet)
	r.HandleFunc("/breakpoints/{nodeID}", handleOne(m)).Methods(http.MethodGet)
	r.HandleFunc("/lines/{file}/{line}", handleLine(m)).Methods(http.MethodGet)
	return r
}

func handleAll(m *Map) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, m.All())
	}
}

func handleOne(m *Map) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)["nodeID"]
		bp, ok := m.Lookup(id)
		if !ok {
			http.Error(w, "no breakpoint recorded for node "+id, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, bp)
	}
}

func handleLine(m *Map) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		vars := mux.Vars(req)
		line, _ := strconv.Atoi(vars["line"])
		ids := m.NodesAt(vars["file"], line)
		writeJSON(w, http.StatusOK, ids)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("debug: writing response: %v", err)
	}
}
