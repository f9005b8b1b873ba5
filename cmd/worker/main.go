package main

import "jobportal/internal/app"

func main() {
	app.RunWorker()
}
