package main

import "shop_backend/internal/app"

func main() {
	app.Run()
}
