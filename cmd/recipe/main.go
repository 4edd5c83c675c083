package main

import "github.com/exqudens/usbrecipe/cmd/recipe/internal"

func main() {
	internal.Execute()
}
