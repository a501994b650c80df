// Command bfun serves the fun handlers.
package main

import "github.com/advdv/bfun/funapp"

func main() {
	funapp.NewApp().Run()
}
