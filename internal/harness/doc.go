// Package harness runs storefront flows described in YAML against an
// in-process fake API and checks the outcome.
//
// # Scenario Format
//
//	name: add_then_update
//	description: "What this scenario validates"
//	setup:
//	  catalog: wildflower
//	  users:
//	    - { name: Asha, email: asha@example.com, password: secret }
//	  login: { email: asha@example.com, password: secret }
//	flow:
//	  - action: add
//	    args: { product_id: 3 }
//	    expect: { ok: true, reason: "Added Poppy Dress to cart" }
//	  - action: navigate
//	    args: { path: /cart }
//	assertions:
//	  - type: cart_total
//	    total: "1200"
//	  - type: request_count
//	    method: GET
//	    path: /cart
//	    count: 2
//
// # Actions
//
//   - login, register, logout, refresh_profile
//   - add (product_id, quantity), update (product_id, quantity), remove
//     (product_id), clear, refresh_cart
//   - checkout (address, city, zip_code, country)
//   - navigate (path): renders the page and keeps the output for page
//     assertions
//   - advance (duration): moves the manual clock
//   - fail_next (method, path, status, detail): makes the fake reject the
//     next matching request
//   - reset_requests: forgets requests recorded so far
//
// # Assertion Types
//
//   - request_count: requests matching method and path, exactly count
//   - cart_total, item_count, line_count: cart derived values
//   - logged_in: session presence, optionally the user's name
//   - page_contains, page_not_contains: text in the last render of path
//
// # Deterministic Testing
//
// Every run gets a fresh fake API, an in-memory store, a manual clock fixed
// at 2025-01-01T10:00:00Z and sequential request ids, so traces are stable
// enough for golden comparison.
package harness
