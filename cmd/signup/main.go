package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/GoArmGo/registro/internal/precheck"
	"github.com/GoArmGo/registro/internal/signup"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "адрес сервера регистрации")
	nombre := flag.String("nombre", "", "имя")
	email := flag.String("email", "", "email")
	contrasena := flag.String("contrasena", "", "пароль")
	repetir := flag.String("repetir", "", "повтор пароля")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	res, err := signup.NewClient(*server, nil).Submit(context.Background(), precheck.Form{
		Nombre:            *nombre,
		Email:             *email,
		Contrasena:        *contrasena,
		RepetirContrasena: *repetir,
	})
	if err != nil {
		logger.Error("signup failed", "error", err)
		os.Exit(1)
	}

	if !res.Registered() {
		fmt.Println(res.Error)
		os.Exit(2)
	}
	fmt.Println("Se ha registrado correctamente.")
}
