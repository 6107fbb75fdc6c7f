// Command sparrow validates schema and locale directories, describes
// schemas, resolves labels and constructs entities from the command line.
package main

func main() {
	Execute()
}
