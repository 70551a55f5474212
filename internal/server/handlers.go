package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type API struct {
	Items ItemStore
	Carts CartStore
	Log   zerolog.Logger
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"message": msg})
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, 2<<20))
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

// Routes registers every endpoint on a fresh mux. Method routing and 405s
// come from the ServeMux patterns.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /cart", a.CreateCart)
	mux.HandleFunc("GET /cart", a.ListCarts)
	mux.HandleFunc("GET /cart/{id}", a.GetCart)
	mux.HandleFunc("POST /cart/{cart_id}/add/{item_id}", a.AddToCart)

	mux.HandleFunc("POST /item", a.CreateItem)
	mux.HandleFunc("GET /item", a.ListItems)
	mux.HandleFunc("GET /item/{id}", a.GetItem)
	mux.HandleFunc("PUT /item/{id}", a.ReplaceItem)
	mux.HandleFunc("PATCH /item/{id}", a.PatchItem)
	mux.HandleFunc("DELETE /item/{id}", a.DeleteItem)

	mux.HandleFunc("GET /factorial", a.Factorial)
	mux.HandleFunc("GET /fibonacci/{n}", a.Fibonacci)
	mux.HandleFunc("POST /mean", a.Mean)

	return mux
}

func (a *API) CreateCart(w http.ResponseWriter, r *http.Request) {
	id, err := a.Carts.Create()
	if err != nil {
		a.storeError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/cart/%d", id))
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (a *API) GetCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}
	c, err := a.Carts.Get(id)
	if err != nil {
		if errors.Is(err, ErrNoCart) {
			writeMessage(w, http.StatusUnprocessableEntity, "no such id")
			return
		}
		a.storeError(w, err)
		return
	}
	view, err := BuildCartView(c, a.Items)
	if err != nil {
		a.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) ListCarts(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r.URL.Query())
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	views, err := ListCarts(a.Carts, a.Items, params)
	if err != nil {
		a.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *API) AddToCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(r, "cart_id")
	if !ok {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid cart_id")
		return
	}
	itemID, ok := pathID(r, "item_id")
	if !ok {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid item_id")
		return
	}

	// The item must exist; soft-deleted still counts, it just contributes
	// nothing to the cart's totals.
	if _, err := a.Items.Get(itemID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusUnprocessableEntity, "no such item_id")
			return
		}
		a.storeError(w, err)
		return
	}

	if err := a.Carts.AddItem(cartID, itemID); err != nil {
		if errors.Is(err, ErrNoCart) {
			writeMessage(w, http.StatusUnprocessableEntity, "no such cart_id")
			return
		}
		a.storeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "item added")
}

type itemRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

func decodeItemRequest(r *http.Request) (itemRequest, error) {
	body, err := readBody(r)
	if err != nil {
		return itemRequest{}, fmt.Errorf("invalid body")
	}
	var req itemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return itemRequest{}, fmt.Errorf("invalid body")
	}
	if req.Name == nil || req.Price == nil {
		return itemRequest{}, fmt.Errorf("name and price are required")
	}
	return req, nil
}

func (a *API) CreateItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeItemRequest(r)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	it, err := a.Items.Create(*req.Name, *req.Price)
	if err != nil {
		a.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (a *API) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}
	it, err := a.Items.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "not found")
			return
		}
		a.storeError(w, err)
		return
	}
	// Soft-deleted items are invisible to the single-item fetch.
	if it.Deleted {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (a *API) ListItems(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r.URL.Query())
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	items, err := ListItems(a.Items, params)
	if err != nil {
		a.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) ReplaceItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}
	req, err := decodeItemRequest(r)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	it, err := a.Items.Replace(id, *req.Name, *req.Price)
	if err != nil {
		a.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (a *API) PatchItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}

	// Strict schema: only name and price may appear, checked before any
	// store call so a rejected patch can't touch state.
	var patch ItemPatch
	for key, raw := range fields {
		switch key {
		case "name":
			var name string
			if err := json.Unmarshal(raw, &name); err != nil {
				writeMessage(w, http.StatusUnprocessableEntity, "invalid name")
				return
			}
			patch.Name = &name
		case "price":
			var price float64
			if err := json.Unmarshal(raw, &price); err != nil {
				writeMessage(w, http.StatusUnprocessableEntity, "invalid price")
				return
			}
			patch.Price = &price
		default:
			writeMessage(w, http.StatusUnprocessableEntity, "unexpected field: "+key)
			return
		}
	}

	it, err := a.Items.PartialUpdate(id, patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeMessage(w, http.StatusUnprocessableEntity, "not found")
		case errors.Is(err, ErrNotModified):
			// 304 carries no body; net/http drops one anyway.
			w.WriteHeader(http.StatusNotModified)
		default:
			a.storeError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (a *API) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}
	if err := a.Items.SoftDelete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "not found")
			return
		}
		a.storeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "item deleted")
}

func (a *API) storeError(w http.ResponseWriter, err error) {
	a.Log.Error().Err(err).Msg("store failure")
	writeMessage(w, http.StatusInternalServerError, "storage error")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithRequestLog tags each request with an id and logs method, path, status,
// and elapsed time.
func (a *API) WithRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.Log.Info().
			Str("request_id", uuid.NewString()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// WithRecover converts a handler panic into the 500 envelope instead of a
// bare stack trace.
func (a *API) WithRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				a.Log.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("handler panic")
				writeJSON(w, http.StatusInternalServerError, numericResponse{
					Message: fmt.Sprintf("Internal server error: %v", v),
					Result:  nil,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
