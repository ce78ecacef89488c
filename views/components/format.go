// Package components holds the reusable markup of the planner.
package components

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path ..

import "strconv"

// num formats a float without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func viewBox(width, height float64) string {
	return "0 0 " + num(width) + " " + num(height)
}
