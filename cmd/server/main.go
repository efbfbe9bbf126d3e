package main

import "github.com/VanshChitransh/ConsultabidV1/internal/bootstrap"

func main() {
	bootstrap.Run()
}
