package apitest

import (
	"fmt"
	"math"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// Categories used by the storefront catalog.
var Categories = []string{"dresses", "tops", "kurtas", "accessories"}

// WildflowerCollection is a small fixed catalog with stable ids and prices.
func WildflowerCollection() []Product {
	return []Product{
		{ID: 1, Name: "Marigold Kurta", Price: 1450, ImageURL: "/images/marigold-kurta.jpg", Category: "kurtas", Description: "Hand-block printed cotton kurta."},
		{ID: 2, Name: "Lotus Scarf", Price: 650, ImageURL: "/images/lotus-scarf.jpg", Category: "accessories", Description: "Soft mulmul scarf with lotus motifs."},
		{ID: 3, Name: "Poppy Dress", Price: 1200, ImageURL: "/images/poppy-dress.jpg", Category: "dresses", Description: "A-line dress in poppy red."},
		{ID: 4, Name: "Jasmine Top", Price: 899.5, ImageURL: "/images/jasmine-top.jpg", Category: "tops", Description: "Breezy linen top."},
		{ID: 7, Name: "Iris Maxi", Price: 2100, ImageURL: "/images/iris-maxi.jpg", Category: "dresses", Description: "Floor-length maxi with iris embroidery."},
	}
}

// FakeCatalog generates n products from seed. The same seed yields the same
// catalog. Ids start at firstID.
func FakeCatalog(seed uint64, firstID int64, n int) []Product {
	f := gofakeit.New(seed)
	out := make([]Product, 0, n)
	for i := 0; i < n; i++ {
		name := f.ProductName()
		slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
		out = append(out, Product{
			ID:          firstID + int64(i),
			Name:        name,
			Price:       math.Round(f.Price(200, 5000)),
			ImageURL:    fmt.Sprintf("/images/%s.jpg", slug),
			Category:    f.RandomString(Categories),
			Description: f.ProductDescription(),
		})
	}
	return out
}
