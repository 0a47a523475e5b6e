// Command trustcheck validates certificate chains against a trust store.
package main

import "github.com/github/truststore/internal/cli"

func main() {
	cli.Execute()
}
