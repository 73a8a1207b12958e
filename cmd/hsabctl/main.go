// Command hsabctl inspects and maintains user documents directly against the
// configured store, through the same pipeline the server uses.
package main

func main() {
	Execute()
}
