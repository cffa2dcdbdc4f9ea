// Package routes holds the route keys shared by the containers and the
// router, and the navigation callback type injected into containers.
package routes

const (
	Login   = "/"
	Bills   = "/employee/bills"
	NewBill = "/employee/bill/new"
)

// Navigate sends the user to another route. The router injects it; the
// containers never reach into routing themselves.
type Navigate func(path string)
