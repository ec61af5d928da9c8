package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"murmur/internal/domain"
)

// memoryStore holds published keys and queued envelopes. Envelopes stay
// queued until the recipient deletes them after persisting locally.
type memoryStore struct {
	mu      sync.RWMutex
	keys    map[string]keyRecord
	inboxes map[string][]domain.WireEnvelope
}

type keyRecord struct {
	Account   string `json:"account"`
	PublicKey string `json:"publicKey"`
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		keys:    make(map[string]keyRecord),
		inboxes: make(map[string][]domain.WireEnvelope),
	}
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	ms := newMemoryStore()
	r := mux.NewRouter()

	r.HandleFunc("/keys/{account}", func(w http.ResponseWriter, req *http.Request) {
		account := mux.Vars(req)["account"]
		defer req.Body.Close()

		var rec keyRecord
		if err := json.NewDecoder(req.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.Account = account

		ms.mu.Lock()
		ms.keys[account] = rec
		ms.mu.Unlock()

		log.WithField("account", account).Info("key published")
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	r.HandleFunc("/keys/{account}", func(w http.ResponseWriter, req *http.Request) {
		account := mux.Vars(req)["account"]

		ms.mu.RLock()
		rec, ok := ms.keys[account]
		ms.mu.RUnlock()
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(rec)
	}).Methods(http.MethodGet)

	r.HandleFunc("/inbox/{account}", func(w http.ResponseWriter, req *http.Request) {
		account := mux.Vars(req)["account"]
		defer req.Body.Close()

		var env domain.WireEnvelope
		if err := json.NewDecoder(req.Body).Decode(&env); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ms.mu.Lock()
		ms.inboxes[account] = append(ms.inboxes[account], env)
		ms.mu.Unlock()

		log.WithFields(logrus.Fields{"account": account, "id": env.ID}).Info("envelope queued")
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	r.HandleFunc("/inbox/{account}", func(w http.ResponseWriter, req *http.Request) {
		account := mux.Vars(req)["account"]

		ms.mu.RLock()
		envs := append([]domain.WireEnvelope(nil), ms.inboxes[account]...)
		ms.mu.RUnlock()

		_ = json.NewEncoder(w).Encode(envs)
	}).Methods(http.MethodGet)

	r.HandleFunc("/inbox/{account}/{id}", func(w http.ResponseWriter, req *http.Request) {
		vars := mux.Vars(req)
		account, id := vars["account"], vars["id"]

		ms.mu.Lock()
		queue := ms.inboxes[account]
		for i, env := range queue {
			if env.ID == id {
				ms.inboxes[account] = append(queue[:i], queue[i+1:]...)
				break
			}
		}
		ms.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodDelete)

	log.WithField("addr", *addr).Info("relay listening")
	if err := http.ListenAndServe(*addr, r); err != nil {
		log.WithError(err).Fatal("relay stopped")
	}
}
