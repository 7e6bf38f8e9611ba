// Command gingo builds and queries graph FM-indexes over labelled directed
// graphs: index construction, forked pattern matching with an optional
// FM-table cache, SA-interval decoding, walk enumeration, and the vertex
// permutation search that shrinks the R2R oracle.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:]))
}
