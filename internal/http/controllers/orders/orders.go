// Package orders implementa un recurso de negocio mínimo protegido por el
// guard. Sirve como consumidor de referencia del chain de autorización:
// cada handler asume que el guard de la ruta ya corrió.
package orders

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/guardia/internal/authz"
	httperrors "github.com/dropDatabas3/guardia/internal/http/errors"
	"github.com/dropDatabas3/guardia/internal/observability/logger"
)

const maxBodySize = 64 * 1024 // 64KB

// Order es el recurso demo.
type Order struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Controller mantiene las órdenes en memoria. Suficiente para ejercitar el
// guard; el recurso en sí no es el punto.
type Controller struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

// NewController crea el controller con el mapa vacío.
func NewController() *Controller {
	return &Controller{orders: make(map[string]*Order)}
}

type orderInput struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

// List maneja GET /v1/orders
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	out := make([]*Order, 0, len(c.orders))
	for _, o := range c.orders {
		cp := *o
		out = append(out, &cp)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	writeJSON(w, http.StatusOK, out)
}

// Get maneja GET /v1/orders/{id}
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c.mu.RLock()
	o, ok := c.orders[id]
	var cp Order
	if ok {
		cp = *o
	}
	c.mu.RUnlock()

	if !ok {
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, &cp)
}

// Create maneja POST /v1/orders
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("orders.Create"))

	var in orderInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Item == "" || in.Quantity <= 0 {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("item y quantity son obligatorios"))
		return
	}

	now := time.Now().UTC()
	o := &Order{
		ID:        uuid.NewString(),
		OwnerID:   authz.SubjectIDFrom(ctx),
		Item:      in.Item,
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	c.mu.Lock()
	c.orders[o.ID] = o
	c.mu.Unlock()

	log.Info("order created", logger.String("order_id", o.ID))
	writeJSON(w, http.StatusCreated, o)
}

// Update maneja PUT /v1/orders/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in orderInput
	if !decodeBody(w, r, &in) {
		return
	}

	c.mu.Lock()
	o, ok := c.orders[id]
	if ok {
		if in.Item != "" {
			o.Item = in.Item
		}
		if in.Quantity > 0 {
			o.Quantity = in.Quantity
		}
		o.UpdatedAt = time.Now().UTC()
	}
	var cp Order
	if ok {
		cp = *o
	}
	c.mu.Unlock()

	if !ok {
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, &cp)
}

// Delete maneja DELETE /v1/orders/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c.mu.Lock()
	_, ok := c.orders[id]
	delete(c.orders, id)
	c.mu.Unlock()

	if !ok {
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export maneja GET /v1/orders/export
func (c *Controller) Export(w http.ResponseWriter, r *http.Request) {
	c.mu.RLock()
	out := make([]*Order, 0, len(c.orders))
	for _, o := range c.orders {
		cp := *o
		out = append(out, &cp)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	w.Header().Set("Content-Disposition", `attachment; filename="orders.json"`)
	writeJSON(w, http.StatusOK, out)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
