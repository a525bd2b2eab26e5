/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/
package main

import "github.com/LeonardoCerv/scratch-space/cmd"

func main() {
	cmd.Execute()
}
