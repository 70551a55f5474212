// Package server implements the shop HTTP API surface.
//
// Owns:
//   - HTTP routing, handlers, and request/response contracts
//   - Item and Cart storage behind the ItemStore/CartStore interfaces
//     (in-memory and SQLite backings)
//   - Cart aggregate computation (price/quantity resolved at read time)
//   - The numeric endpoints (factorial, fibonacci, mean)
//
// Does not own:
//   - Process configuration (internal/shared)
//   - CORS policy (wired in cmd/shop-server)
//
// Invariants:
//   - JSON responses are consistent via writeJSON
//   - Soft-deleted items remain resolvable through raw store lookups but are
//     hidden from the single-item endpoint and excluded from cart totals
//   - A rejected mutation leaves store state unchanged
package server
