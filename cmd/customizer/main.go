// Command customizer lists, inspects and renders the vehicles of a catalog
// with chosen body and wheel colors.
package main

func main() {
	Execute()
}
