//go:build tools

package main

// Dependencias de herramientas de build: swag genera docs/swagger.json a
// partir de las anotaciones de los handlers (swag init -g cmd/api/main.go).
import (
	_ "github.com/swaggo/swag"
)
