package main

import (
	"github.com/devenspear/Crafted25-AIChatbot/internal/bootstrap"
)

func main() {
	bootstrap.Run()
}
