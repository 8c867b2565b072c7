// Command seedadmin creates the initial administrator account. Intended
// for first deployment; it refuses to overwrite an existing user.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/dmbruno/Ananda/internal/config"
	"github.com/dmbruno/Ananda/internal/infra"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	nombre := flag.String("nombre", "Admin", "nombre del administrador")
	apellido := flag.String("apellido", "Sistema", "apellido del administrador")
	email := flag.String("email", "", "email del administrador (requerido)")
	password := flag.String("password", "", "password inicial (requerido)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error cargando la configuracion")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("error conectando a la base de datos")
	}

	ctx := context.Background()
	repo := repository.NewUsuarioRepository(db)

	if _, err := repo.FindByEmail(ctx, *email); err == nil {
		log.Fatal().Str("email", *email).Msg("ya existe un usuario con ese email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("error generando el hash")
	}

	admin := &model.Usuario{
		Nombre:       *nombre,
		Apellido:     *apellido,
		Email:        *email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		Activo:       true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("error creando el administrador")
	}

	log.Info().Str("email", admin.Email).Str("id", admin.ID.String()).Msg("administrador creado")
}
