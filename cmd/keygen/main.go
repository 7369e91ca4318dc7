// keygen genera un par de llaves RSA para firmar los access tokens e imprime las líneas
// listas para pegar en el .env.
//
// Uso: go run ./cmd/keygen [-bits 2048]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/gestor-rh-api/pkg/jwt"
)

func main() {
	bits := flag.Int("bits", 2048, "tamaño de la llave RSA")
	flag.Parse()
	if *bits < 2048 {
		fmt.Fprintln(os.Stderr, "bits debe ser al menos 2048")
		os.Exit(1)
	}

	private, public, err := jwt.GenerateKeyPair(*bits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar llaves: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("JWT_PRIVATE_KEY=%s\n", private)
	fmt.Printf("JWT_PUBLIC_KEY=%s\n", public)
}
