// Command markcopy converts web pages, selections, elements and links to
// Markdown and copies the result to the clipboard.
package main

import "github.com/gaurav-prasanna/markcopy/cmd"

func main() {
	cmd.Execute()
}
