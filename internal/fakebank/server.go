package fakebank

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dchest/uniuri"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"github.com/jask/bankdesk/internal/logging"
)

const (
	sessionName = "bankdesk_session"
	sessionUser = "user_id"
)

// Server exposes a Bank over the service's HTTP API.
type Server struct {
	bank  *Bank
	store sessions.Store
	log   *logrus.Entry
}

// NewServer wraps b. An empty sessionKey generates a random one, so sessions
// do not survive a restart.
func NewServer(b *Bank, sessionKey string, log *logrus.Entry) *Server {
	if sessionKey == "" {
		sessionKey = uniuri.NewLen(32)
	}
	if log == nil {
		log = logging.Component(nil, "fakebank")
	}
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{Path: "/", MaxAge: 86400, HttpOnly: true, SameSite: http.SameSiteLaxMode}
	return &Server{bank: b, store: store, log: log}
}

// Router returns the full handler chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Post("/create_account", s.createAccount)
		r.Post("/deposit", s.deposit)
		r.Post("/withdraw", s.withdraw)
		r.Post("/transfer", s.transfer)
		r.Post("/update_account", s.updateAccount)
		r.Post("/delete_account", s.deleteAccount)
		r.Post("/view_account", s.viewAccount)
		r.Get("/accounts", s.accounts)
		r.Get("/blockchain", s.blockchain)
		r.Get("/validate_chain", s.validateChain)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		fields := logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"size":       humanize.Bytes(uint64(ww.BytesWritten())),
			"duration":   time.Since(start).String(),
		}
		if sess, err := s.store.Get(r, sessionName); err == nil {
			if uid, ok := sess.Values[sessionUser].(int); ok {
				fields["user_id"] = uid
			}
		}
		s.log.WithFields(fields).Info("handled")
	})
}

type reply struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Account *accountJSON `json:"account,omitempty"`
}

type accountJSON struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Balance float64 `json:"balance"`
}

func writeJSON(w http.ResponseWriter, code int, v reply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, reply{Success: true, Message: msg})
}

func fail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, reply{Success: false, Message: msg})
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

// params reads the named form values. It reports false if the form cannot
// be parsed or any name is absent.
func params(r *http.Request, names ...string) (map[string]string, bool) {
	if err := r.ParseForm(); err != nil {
		return nil, false
	}
	out := make(map[string]string, len(names))
	for _, n := range names {
		vals, present := r.Form[n]
		if !present || len(vals) == 0 {
			return nil, false
		}
		out[n] = vals[0]
	}
	return out, true
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func cents(s string) (int64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Round(f * 100)), true
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	p, present := params(r, "id", "username", "password")
	id, valid := atoi(p["id"])
	if !present || !valid {
		fail(w, http.StatusBadRequest, "Missing registration data.")
		return
	}
	if err := s.bank.Register(id, p["username"], p["password"]); err != nil {
		fail(w, http.StatusBadRequest, "Registration failed. User limit reached?")
		return
	}
	ok(w, "Registration successful!")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	p, present := params(r, "id", "username", "password")
	id, valid := atoi(p["id"])
	if !present || !valid {
		fail(w, http.StatusBadRequest, "Missing login data.")
		return
	}
	if err := s.bank.Login(id, p["username"], p["password"]); err != nil {
		fail(w, http.StatusUnauthorized, "Login failed. Check credentials.")
		return
	}
	sess, _ := s.store.Get(r, sessionName)
	sess.Values[sessionUser] = id
	if err := sess.Save(r, w); err != nil {
		s.log.WithError(err).Warn("save session")
	}
	ok(w, "Login successful!")
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	p, present := params(r, "id", "name", "phno", "balance")
	id, idOK := atoi(p["id"])
	bal, balOK := cents(p["balance"])
	if !present || !idOK || !balOK {
		fail(w, http.StatusBadRequest, "Missing form data.")
		return
	}
	switch err := s.bank.Create(id, p["name"], p["phno"], bal); {
	case err == nil:
		ok(w, "Account created successfully!")
	case errors.Is(err, ErrAccountExists):
		fail(w, http.StatusBadRequest, "Account ID already exists.")
	default:
		fail(w, http.StatusBadRequest, "Failed to create account.")
	}
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	p, present := params(r, "id", "amount")
	id, idOK := atoi(p["id"])
	amt, amtOK := cents(p["amount"])
	if !present || !idOK || !amtOK {
		fail(w, http.StatusBadRequest, "Missing deposit data.")
		return
	}
	switch err := s.bank.Deposit(id, amt); {
	case err == nil:
		ok(w, "Deposit successful!")
	case errors.Is(err, ErrNotFound):
		fail(w, http.StatusNotFound, "Account not found.")
	default:
		fail(w, http.StatusBadRequest, "Invalid deposit amount.")
	}
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	p, present := params(r, "id", "amount")
	id, idOK := atoi(p["id"])
	amt, amtOK := cents(p["amount"])
	if !present || !idOK || !amtOK {
		fail(w, http.StatusBadRequest, "Missing withdrawal data.")
		return
	}
	switch err := s.bank.Withdraw(id, amt); {
	case err == nil:
		ok(w, "Withdrawal successful!")
	case errors.Is(err, ErrNotFound):
		fail(w, http.StatusNotFound, "Account not found.")
	case errors.Is(err, ErrInsufficient):
		fail(w, http.StatusBadRequest, "Insufficient funds.")
	default:
		fail(w, http.StatusBadRequest, "Invalid withdrawal amount.")
	}
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	p, present := params(r, "fromID", "toID", "amount")
	from, fromOK := atoi(p["fromID"])
	to, toOK := atoi(p["toID"])
	amt, amtOK := cents(p["amount"])
	if !present || !fromOK || !toOK || !amtOK {
		fail(w, http.StatusBadRequest, "Missing transfer data.")
		return
	}
	switch err := s.bank.Transfer(from, to, amt); {
	case err == nil:
		ok(w, "Transfer successful!")
	case errors.Is(err, ErrSenderMissing):
		fail(w, http.StatusNotFound, "Sender account not found.")
	case errors.Is(err, ErrReceiverGone):
		fail(w, http.StatusNotFound, "Receiver account not found.")
	default:
		fail(w, http.StatusBadRequest, "Invalid amount or insufficient funds.")
	}
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	p, present := params(r, "id")
	id, valid := atoi(p["id"])
	if !present || !valid {
		fail(w, http.StatusBadRequest, "Account ID is required.")
		return
	}
	if err := s.bank.Update(id, r.Form.Get("name"), r.Form.Get("phno")); err != nil {
		fail(w, http.StatusNotFound, "Account not found or no new data provided.")
		return
	}
	ok(w, "Account updated successfully!")
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	p, present := params(r, "id")
	id, valid := atoi(p["id"])
	if !present || !valid {
		fail(w, http.StatusBadRequest, "Account ID is required.")
		return
	}
	if err := s.bank.Delete(id); err != nil {
		fail(w, http.StatusNotFound, "Account not found.")
		return
	}
	ok(w, "Account deleted successfully!")
}

func (s *Server) viewAccount(w http.ResponseWriter, r *http.Request) {
	p, present := params(r, "id")
	id, valid := atoi(p["id"])
	if !present || !valid {
		fail(w, http.StatusBadRequest, "Account ID is required.")
		return
	}
	a, err := s.bank.Get(id)
	if err != nil {
		fail(w, http.StatusNotFound, "Account not found.")
		return
	}
	writeJSON(w, http.StatusOK, reply{Success: true, Account: &accountJSON{
		ID:      a.ID,
		Name:    a.Name,
		Phone:   a.Phone,
		Balance: float64(a.Balance) / 100,
	}})
}

func (s *Server) accounts(w http.ResponseWriter, r *http.Request) {
	writeText(w, s.bank.Summary())
}

func (s *Server) blockchain(w http.ResponseWriter, r *http.Request) {
	writeText(w, s.bank.LedgerText())
}

func (s *Server) validateChain(w http.ResponseWriter, r *http.Request) {
	if s.bank.ValidateLedger() {
		ok(w, "Blockchain is valid and secure!")
		return
	}
	fail(w, http.StatusInternalServerError, "DANGER: Blockchain validation FAILED. Chain is broken or has been tampered with.")
}
