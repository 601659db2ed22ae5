package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/example/shipment-tracker/internal/domain"
	"github.com/example/shipment-tracker/internal/usecase"
)

const maxUploadBytes = 1 << 20

// Redirect targets of the login form.
const (
	HomePage  = "/home.html"
	LoginPage = "/login.html"
)

type Server struct {
	Router *mux.Router

	UCAuth   usecase.Authenticate
	UCList   usecase.ListRecords
	UCSearch usecase.SearchRecords
	UCUpload usecase.UploadOrder
}

// Deps groups what the HTTP layer needs; Subscribers and StaticDir are optional.
type Deps struct {
	Auth        usecase.Authenticate
	List        usecase.ListRecords
	Search      usecase.SearchRecords
	Upload      usecase.UploadOrder
	Subscribers http.Handler
	StaticDir   string
}

func NewServer(d Deps) *Server {
	s := &Server{
		Router:   mux.NewRouter(),
		UCAuth:   d.Auth,
		UCList:   d.List,
		UCSearch: d.Search,
		UCUpload: d.Upload,
	}
	s.Router.HandleFunc("/auth", s.handleAuth).Methods(http.MethodPost)
	s.Router.HandleFunc("/show", s.handleShow).Methods(http.MethodGet)
	s.Router.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	s.Router.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	if d.Subscribers != nil {
		s.Router.Handle("/ws", d.Subscribers)
	}
	if d.StaticDir != "" {
		s.Router.PathPrefix("/").Handler(http.FileServer(http.Dir(d.StaticDir)))
	}
	return s
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if s.UCAuth.Execute(r.PostForm.Get("username"), r.PostForm.Get("password")) {
		http.Redirect(w, r, HomePage, http.StatusFound)
		return
	}
	http.Redirect(w, r, LoginPage, http.StatusFound)
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.UCList.Execute())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := usecase.ParseSearchQuery(q.Get("productId"), q.Get("buyer"), q.Get("shippingTarget"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	records, err := s.UCSearch.Execute(query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, records)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	o, status, err := decodeUpload(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	records, err := s.UCUpload.Execute(r.Context(), o)
	if err != nil {
		if usecase.IsClientError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("upload order: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	log.Printf("uploaded order for %s: %d shipping records", o.Buyer, len(records))
	w.WriteHeader(http.StatusOK)
}

func decodeUpload(r *http.Request) (domain.Order, int, error) {
	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return domain.Order{}, http.StatusUnsupportedMediaType, fmt.Errorf("invalid content type")
		}
		mediaType = mt
	}

	switch mediaType {
	case "application/json":
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return domain.Order{}, http.StatusRequestEntityTooLarge, fmt.Errorf("read body: %w", err)
		}
		o, err := usecase.DecodeOrder(raw)
		if err != nil {
			return domain.Order{}, http.StatusBadRequest, err
		}
		return o, http.StatusOK, nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return domain.Order{}, http.StatusBadRequest, fmt.Errorf("invalid form")
		}
		o, err := orderFromForm(r)
		if err != nil {
			return domain.Order{}, http.StatusBadRequest, err
		}
		return o, http.StatusOK, nil
	}
	return domain.Order{}, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported content type %q", mediaType)
}

// orderFromForm reads buyer, orderDate, orderTime and parallel item/quantity fields.
func orderFromForm(r *http.Request) (domain.Order, error) {
	f := r.PostForm
	items, quantities := f["item"], f["quantity"]
	if len(items) != len(quantities) {
		return domain.Order{}, fmt.Errorf("%w: item and quantity counts differ", domain.ErrValidation)
	}
	o := domain.Order{
		Buyer:     f.Get("buyer"),
		OrderDate: f.Get("orderDate"),
		OrderTime: f.Get("orderTime"),
		Items:     make([]domain.OrderItem, 0, len(items)),
	}
	for i, name := range items {
		if name == "" && quantities[i] == "" {
			continue
		}
		q, err := strconv.Atoi(quantities[i])
		if err != nil {
			return domain.Order{}, fmt.Errorf("%w: quantity %q is not an integer", domain.ErrValidation, quantities[i])
		}
		o.Items = append(o.Items, domain.OrderItem{Item: name, Quantity: q})
	}
	return o, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
