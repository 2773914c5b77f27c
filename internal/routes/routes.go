package routes

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/haguru/wakenbake/internal/auth"
	"github.com/haguru/wakenbake/internal/catalog"
	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/middleware"
	"github.com/haguru/wakenbake/internal/models"
	"github.com/haguru/wakenbake/internal/models/dto"
	"github.com/haguru/wakenbake/internal/orderservice"
	"github.com/haguru/wakenbake/internal/session"
	"github.com/haguru/wakenbake/internal/userservice"

	structValidator "github.com/go-playground/validator/v10"
)

type Route struct {
	Metrics      interfaces.Metrics
	UserService  *userservice.UserService
	OrderService *orderservice.OrderService
	Sessions     interfaces.SessionStore
	PrivateKey   *ecdsa.PrivateKey
	SessionTTL   time.Duration
	validator    *structValidator.Validate
}

// NewRoute creates a new Route instance.
func NewRoute(metrics interfaces.Metrics, userService *userservice.UserService,
	orderService *orderservice.OrderService, sessions interfaces.SessionStore,
	privateKey *ecdsa.PrivateKey, sessionTTL time.Duration, validator *structValidator.Validate,
) *Route {

	return &Route{
		Metrics:      metrics,
		UserService:  userService,
		OrderService: orderService,
		Sessions:     sessions,
		PrivateKey:   privateKey,
		SessionTTL:   sessionTTL,
		validator:    validator,
	}
}

// Signup handles user signup requests. A duplicate username is a non-fatal
// conflict; the caller stays on the signup page and may try another name.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupRequestsTotal)
	}

	if req.Header.Get(ContentType) != ContentTypeJson {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf(ErrInvalidContentTypeFormat, req.Header.Get(ContentType)), "Request Content-Type must be application/json")
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	signupRequest := &dto.UserSignupRequestDTO{}
	err := json.NewDecoder(req.Body).Decode(signupRequest)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, "Invalid request body")
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	if err := r.validator.Struct(signupRequest); err != nil {
		// Validation failed, handle the error
		errs := err.(structValidator.ValidationErrors)
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid signup data: %s", errs), "Please fill out all fields")
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	userID, err := r.UserService.RegisterUser(req.Context(), signupRequest.Username, signupRequest.Password)
	if err != nil {
		if errors.Is(err, interfaces.ErrDuplicateUsername) {
			w.WriteHeader(http.StatusConflict)
			r.errorResponse(w, err, "Username already exists. Try another.")
		} else {
			w.WriteHeader(http.StatusInternalServerError)
			r.errorResponse(w, err, "Failed to register user")
		}
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupSuccessTotal)
		duration := time.Since(startTime).Seconds()
		r.Metrics.ObserveHistogram(SignupDurationSeconds, duration)
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusCreated)

	response := &dto.UserSignupResponseDTO{
		Message: fmt.Sprintf(MsgUserCreatedFormat, userID),
		UserID:  userID,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}
}

// Login handles user login requests. On success a server-side session is
// created, driven login -> home through the state machine, and named by a
// signed HttpOnly cookie.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginRequestsTotal)
	}

	if req.Header.Get(ContentType) != ContentTypeJson {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf(ErrInvalidContentTypeFormat, req.Header.Get(ContentType)), "Content-Type must be application/json")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	loginRequest := &dto.LoginRequestDTO{}
	err := json.NewDecoder(req.Body).Decode(loginRequest)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, "Invalid request body")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	if err := r.validator.Struct(loginRequest); err != nil {
		// Validation failed, handle the error
		errs := err.(structValidator.ValidationErrors)
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid login data: %s", errs), "Please fill out all fields")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	authenticated, err := r.UserService.AuthenticateUser(req.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, "Login is temporarily unavailable")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}
	if !authenticated {
		// Unknown user and wrong password are indistinguishable here.
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, errors.New(ErrInvalidCredentials), "Invalid username or password.")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
			duration := time.Since(startTime).Seconds()
			r.Metrics.ObserveHistogram(LoginDurationSeconds, duration)
		}
		return
	}

	sess, err := r.Sessions.Create(loginRequest.Username)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, "Failed to create session")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}
	if err := sess.Apply(session.ActionLoginSuccess); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, "Failed to create session")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	sessionToken, err := auth.CreateToken(sess.ID, loginRequest.Username, r.SessionTTL, r.PrivateKey)
	if err != nil {
		r.Sessions.Delete(sess.ID)
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, "Failed to generate session token")
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginSuccessTotal)
		duration := time.Since(startTime).Seconds()
		r.Metrics.ObserveHistogram(LoginDurationSeconds, duration)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
	})

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	response := &dto.LoginResponseDTO{
		Message: MsgLoginSuccessful,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		return
	}
}

// Logout ends the session and clears the cookie. A request without a live
// session still gets its cookie cleared and a 200; logout is idempotent.
func (r *Route) Logout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	cookie, err := req.Cookie(middleware.SessionCookieName)
	if err == nil {
		if claims, verr := auth.VerifyToken(cookie.Value, &r.PrivateKey.PublicKey); verr == nil {
			if sess, ok := r.Sessions.Get(claims.SessionID); ok {
				// Logout clears the user and the cart before the session goes away.
				_ = sess.Apply(session.ActionLogout)
				r.Sessions.Delete(sess.ID)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": MsgLogoutSuccessful})
}

// Menu serves the compiled-in catalog, whole or one category at a time.
func (r *Route) Menu(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	categoryName := req.URL.Query().Get("category")

	var categories []catalog.Category
	if categoryName != "" {
		items, ok := catalog.GetCategory(categoryName)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			r.errorResponse(w, fmt.Errorf("%s: %s", ErrUnknownMenuCategory, categoryName), "Unknown menu category")
			return
		}
		categories = []catalog.Category{{Name: categoryName, Items: items}}
	} else {
		categories = catalog.Categories()
	}

	response := &dto.MenuResponseDTO{}
	for _, c := range categories {
		categoryDTO := dto.MenuCategoryDTO{Name: c.Name}
		for _, item := range c.Items {
			categoryDTO.Items = append(categoryDTO.Items, dto.MenuItemDTO{
				ItemName:  item.Name,
				UnitPrice: item.UnitPrice,
			})
		}
		response.Categories = append(response.Categories, categoryDTO)
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		return
	}
}

// Cart returns the pending cart lines with per-line and grand totals.
func (r *Route) Cart(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	sess, ok := middleware.SessionFromContext(req.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, errors.New("no session in request context"), "Not logged in")
		return
	}

	response := cartView(sess)
	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		return
	}
}

// CartAdd appends one line to the session cart. The unit price is copied
// from the catalog at add time; the client never supplies a price.
func (r *Route) CartAdd(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	sess, ok := middleware.SessionFromContext(req.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, errors.New("no session in request context"), "Not logged in")
		return
	}

	if req.Header.Get(ContentType) != ContentTypeJson {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf(ErrInvalidContentTypeFormat, req.Header.Get(ContentType)), "Content-Type must be application/json")
		return
	}

	addRequest := &dto.CartAddRequestDTO{}
	if err := json.NewDecoder(req.Body).Decode(addRequest); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, "Invalid request body")
		return
	}

	if err := r.validator.Struct(addRequest); err != nil {
		errs := err.(structValidator.ValidationErrors)
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid cart data: %s", errs), "Quantity must be between 1 and 10")
		return
	}

	item, found := catalog.Lookup(addRequest.ItemName)
	if !found {
		w.WriteHeader(http.StatusNotFound)
		r.errorResponse(w, fmt.Errorf("%s: %s", ErrUnknownMenuItem, addRequest.ItemName), "Unknown menu item")
		return
	}

	line, err := sess.AddCartLine(item.Name, addRequest.Quantity, item.UnitPrice)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, err, "Not logged in")
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(CartAddsTotal)
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusCreated)
	response := &dto.CartAddResponseDTO{
		Message: fmt.Sprintf("Added %d x %s to cart.", line.Quantity, line.ItemName),
		Line:    line,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		return
	}
}

// Checkout places one order per cart line and clears the cart on success.
// There is no transaction across lines; a mid-loop failure leaves the
// already-placed orders in the ledger and the rest in the cart.
func (r *Route) Checkout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	sess, ok := middleware.SessionFromContext(req.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, errors.New("no session in request context"), "Not logged in")
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(CheckoutRequestsTotal)
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	placed, err := r.OrderService.Checkout(req.Context(), sess)
	if err != nil {
		if errors.Is(err, session.ErrEmptyCart) {
			w.WriteHeader(http.StatusBadRequest)
			r.errorResponse(w, err, "Cart is empty.")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, "Checkout failed, your remaining items are still in the cart")
		if r.Metrics != nil {
			r.Metrics.IncCounter(CheckoutErrorsTotal)
			r.Metrics.AddCounter(OrdersPlacedTotal, float64(len(placed)))
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.AddCounter(OrdersPlacedTotal, float64(len(placed)))
		duration := time.Since(startTime).Seconds()
		r.Metrics.ObserveHistogram(CheckoutDurationSeconds, duration)
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	response := &dto.CheckoutResponseDTO{
		Message: MsgOrderPlaced,
		Orders:  ordersToDTO(placed),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		return
	}
}

// Orders lists the user's order history, newest first.
func (r *Route) Orders(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), "Method not allowed")
		return
	}

	sess, ok := middleware.SessionFromContext(req.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, errors.New("no session in request context"), "Not logged in")
		return
	}

	orders, err := r.OrderService.ListOrders(req.Context(), sess.Username)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, "Failed to retrieve orders")
		return
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	response := &dto.OrderListResponseDTO{
		Orders: ordersToDTO(orders),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.errorResponse(w, err, "Failed to encode response")
		return
	}
}

func cartView(sess *session.Session) *dto.CartViewResponseDTO {
	lines := sess.CartLines()
	view := &dto.CartViewResponseDTO{
		Lines:      make([]dto.CartLineDTO, 0, len(lines)),
		GrandTotal: sess.CartTotal(),
	}
	for _, line := range lines {
		view.Lines = append(view.Lines, dto.CartLineDTO{
			ItemName:  line.ItemName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal(),
		})
	}
	return view
}

func ordersToDTO(orders []models.Order) []dto.OrderDTO {
	out := make([]dto.OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.OrderDTO{
			ItemName:   o.ItemName,
			Quantity:   o.Quantity,
			UnitPrice:  o.UnitPrice,
			TotalPrice: o.TotalPrice,
			CreatedAt:  o.CreatedAt,
		})
	}
	return out
}

func (r *Route) errorResponse(w http.ResponseWriter, err error, message string) {
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	jsonResponse := map[string]string{
		"error":   errText,
		"message": message,
	}
	_ = json.NewEncoder(w).Encode(jsonResponse)
}
