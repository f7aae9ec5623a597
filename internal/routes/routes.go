package routes

import (
	"net/http"
	"strings"

	carthandler "retailpos/internal/handlers/cart"
	cataloghandler "retailpos/internal/handlers/catalog"
	ledgerhandler "retailpos/internal/handlers/ledger"
	sessionhandler "retailpos/internal/handlers/session"
	"retailpos/internal/session"
	"retailpos/pkg/lib/urlparser"
)

type SessionSource interface {
	Current() session.Session
}

type Routes struct {
	sessions       SessionSource
	sessionHandler *sessionhandler.Handler
	catalogHandler *cataloghandler.Handler
	cartHandler    *carthandler.Handler
	ledgerHandler  *ledgerhandler.Handler
}

func New(
	sessions SessionSource,
	sessionHandler *sessionhandler.Handler,
	catalogHandler *cataloghandler.Handler,
	cartHandler *carthandler.Handler,
	ledgerHandler *ledgerhandler.Handler,
) *Routes {
	return &Routes{
		sessions:       sessions,
		sessionHandler: sessionHandler,
		catalogHandler: catalogHandler,
		cartHandler:    cartHandler,
		ledgerHandler:  ledgerHandler,
	}
}

func (r *Routes) Register(mux *http.ServeMux) {
	mux.HandleFunc("/session", r.sessionRoot)
	mux.HandleFunc("/session/", r.sessionPath)
	mux.HandleFunc("/products", r.productsRoot)
	mux.HandleFunc("/products/", r.productPath)
	mux.HandleFunc("/categories", r.categories)
	mux.HandleFunc("/orders", r.orders)
	mux.HandleFunc("/cart", r.cartRoot)
	mux.HandleFunc("/cart/", r.cartPath)
}

func anyone(session.Session) bool { return true }

func admin(s session.Session) bool { return s.CanManageCatalog() }

func staff(s session.Session) bool { return s.CanCheckout() }

// allow answers 401 for a logged out till and 403 for the wrong role.
func (r *Routes) allow(w http.ResponseWriter, can func(session.Session) bool) bool {
	sess := r.sessions.Current()
	if !sess.Authenticated() {
		http.Error(w, "Please log in", http.StatusUnauthorized)
		return false
	}
	if !can(sess) {
		http.Error(w, "Not allowed for your role", http.StatusForbidden)
		return false
	}
	return true
}

func notAllowed(w http.ResponseWriter, methods ...string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func (r *Routes) sessionRoot(w http.ResponseWriter, req *http.Request) {
	// GET /session
	if req.Method != http.MethodGet {
		notAllowed(w, http.MethodGet)
		return
	}
	r.sessionHandler.Get(w, req)
}

func (r *Routes) sessionPath(w http.ResponseWriter, req *http.Request) {
	switch strings.Trim(req.URL.Path, "/") {
	case "session/login":
		// POST /session/login
		if req.Method != http.MethodPost {
			notAllowed(w, http.MethodPost)
			return
		}
		r.sessionHandler.Login(w, req)
	case "session/logout":
		// POST /session/logout
		if req.Method != http.MethodPost {
			notAllowed(w, http.MethodPost)
			return
		}
		r.sessionHandler.Logout(w, req)
	default:
		http.NotFound(w, req)
	}
}

func (r *Routes) productsRoot(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		// GET /products?category=&refresh=
		if r.allow(w, anyone) {
			r.catalogHandler.ListProducts(w, req)
		}
	case http.MethodPost:
		// POST /products
		if r.allow(w, admin) {
			r.catalogHandler.AddProduct(w, req)
		}
	default:
		notAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (r *Routes) productPath(w http.ResponseWriter, req *http.Request) {
	id, err := urlparser.ParseProductPath(req.URL.Path)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	switch req.Method {
	case http.MethodPut:
		// PUT /products/{id}
		if r.allow(w, admin) {
			r.catalogHandler.UpdateProduct(w, req, id)
		}
	case http.MethodDelete:
		// DELETE /products/{id}?confirm=true
		if r.allow(w, admin) {
			r.catalogHandler.DeleteProduct(w, req, id)
		}
	default:
		notAllowed(w, http.MethodPut, http.MethodDelete)
	}
}

func (r *Routes) categories(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		// GET /categories
		if r.allow(w, anyone) {
			r.catalogHandler.ListCategories(w, req)
		}
	case http.MethodPost:
		// POST /categories
		if r.allow(w, admin) {
			r.catalogHandler.AddCategory(w, req)
		}
	default:
		notAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (r *Routes) orders(w http.ResponseWriter, req *http.Request) {
	// GET /orders?user=
	if req.Method != http.MethodGet {
		notAllowed(w, http.MethodGet)
		return
	}
	if r.allow(w, admin) {
		r.ledgerHandler.ListOrders(w, req)
	}
}

func (r *Routes) cartRoot(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		// GET /cart
		if r.allow(w, staff) {
			r.cartHandler.ViewCart(w, req)
		}
	case http.MethodDelete:
		// DELETE /cart?confirm=true
		if r.allow(w, staff) {
			r.cartHandler.ClearCart(w, req)
		}
	default:
		notAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func (r *Routes) cartPath(w http.ResponseWriter, req *http.Request) {
	switch strings.Trim(req.URL.Path, "/") {
	case "cart/items":
		// POST /cart/items
		if req.Method != http.MethodPost {
			notAllowed(w, http.MethodPost)
			return
		}
		if r.allow(w, staff) {
			r.cartHandler.AddToCart(w, req)
		}
		return
	case "cart/checkout":
		// POST /cart/checkout
		if req.Method != http.MethodPost {
			notAllowed(w, http.MethodPost)
			return
		}
		if r.allow(w, staff) {
			r.cartHandler.Checkout(w, req)
		}
		return
	}

	productId, err := urlparser.ParseCartItemPath(req.URL.Path)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	// DELETE /cart/items/{productId}
	if req.Method != http.MethodDelete {
		notAllowed(w, http.MethodDelete)
		return
	}
	if r.allow(w, staff) {
		r.cartHandler.RemoveFromCart(w, req, productId)
	}
}
