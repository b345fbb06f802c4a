package view

import (
	"io"
	"strconv"
	"strings"
)

// Navigation writes the header shown above every page.
func (v *Views) Navigation(w io.Writer) error {
	out := &errWriter{w: w}
	out.line("PREETIZEN  |  Our Story  |  Wildflower Collection  |  Student Program")

	var right []string
	if user := v.deps.Session.User(); user != nil {
		right = append(right, "Hello, "+user.Name)
		cart := "Cart"
		if n := v.deps.Cart.ItemCount(); n > 0 {
			cart += " (" + strconv.Itoa(n) + ")"
		}
		right = append(right, cart, "Logout")
	} else {
		right = append(right, "Login")
	}
	out.line(strings.Join(right, "  |  "))
	out.line(rule())
	return out.err
}
