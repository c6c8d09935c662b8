package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-phong-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory searched for .json scene files")
	envFile := flag.String("env", ".env", "Environment file loaded at startup")
	flag.Parse()

	// A missing env file is fine
	_ = godotenv.Load(*envFile)

	// PORT from the environment applies unless -port was given
	portSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "port" {
			portSet = true
		}
	})
	if envPort := os.Getenv("PORT"); envPort != "" && !portSet {
		parsed, err := strconv.Atoi(envPort)
		if err != nil {
			log.Printf("Ignoring invalid PORT %q", envPort)
		} else {
			*port = parsed
		}
	}

	webServer := server.NewServer(*port, *scenesDir)

	log.Printf("Phong Raytracer Web Server")
	log.Printf("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
