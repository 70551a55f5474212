package server

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
)

// numericResponse is the envelope every numeric endpoint answers with,
// success or not.
type numericResponse struct {
	Message string `json:"message"`
	Result  any    `json:"result"`
}

func writeNumeric(w http.ResponseWriter, code int, msg string, result any) {
	writeJSON(w, code, numericResponse{Message: msg, Result: result})
}

func (a *API) Factorial(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("n")
	n, err := strconv.Atoi(raw)
	if raw == "" || err != nil {
		writeNumeric(w, http.StatusUnprocessableEntity, "n must be an integer", nil)
		return
	}
	if n < 0 {
		writeNumeric(w, http.StatusBadRequest, "n must be non-negative", nil)
		return
	}
	// MulRange(1, 0) is the empty product, so 0! comes out as 1.
	res := new(big.Int).MulRange(1, int64(n))
	writeNumeric(w, http.StatusOK, "OK", res.String())
}

func (a *API) Fibonacci(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		writeNumeric(w, http.StatusUnprocessableEntity, "n must be an integer", nil)
		return
	}
	if n < 0 {
		writeNumeric(w, http.StatusBadRequest, "n must be non-negative", nil)
		return
	}
	// 0-indexed: fib(0)=0, fib(1)=1.
	a0, a1 := big.NewInt(0), big.NewInt(1)
	for i := 0; i < n; i++ {
		a0, a1 = a1, new(big.Int).Add(a0, a1)
	}
	writeNumeric(w, http.StatusOK, "OK", a0.String())
}

func (a *API) Mean(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeNumeric(w, http.StatusUnprocessableEntity, "body must be a JSON array of numbers", nil)
		return
	}
	var values []float64
	if err := json.Unmarshal(body, &values); err != nil {
		writeNumeric(w, http.StatusUnprocessableEntity, "body must be a JSON array of numbers", nil)
		return
	}
	if len(values) == 0 {
		writeNumeric(w, http.StatusBadRequest, "array must not be empty", nil)
		return
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	writeNumeric(w, http.StatusOK, "OK", sum/float64(len(values)))
}
