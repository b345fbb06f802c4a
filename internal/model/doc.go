// Package model defines the storefront's domain types: users, catalog
// products, cart lines and orders, plus the Result value every store command
// returns.
//
// Prices are decimal major currency units (rupees). No minor-unit conversion
// happens anywhere in the client; see package money for display rules.
package model
