// Command portal is a terminal front end for the hotel booking client.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/hotelportal/config"
	"github.com/Domenick1991/hotelportal/internal/bootstrap"
	"github.com/Domenick1991/hotelportal/internal/logger"
	"github.com/joho/godotenv"
)

const usage = `usage: portal <command> [flags]

commands:
  login     -email -password
  whoami
  logout
  register  -first -last -email -password [-phone] [-role]
  verify    -token
  forgot    -email
  reset     -token -password
  book      -hotel -room -check-in -check-out [-guests] [-rooms] [-requests]
            [-first -last -email -phone] -card -expiry -cvv -name [-yes]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zl, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	portal, err := bootstrap.NewPortal(cfg, zl)
	if err != nil {
		log.Fatalf("init portal: %v", err)
	}
	defer portal.Close()

	app := newApp(portal, cfg, os.Stdin, os.Stdout)
	code := app.run(ctx, os.Args[1], os.Args[2:])
	if code != 0 {
		stop()
		portal.Close()
		os.Exit(code)
	}
}

// loadConfig reads CONFIG_PATH or ./config.yaml. A missing default file is
// not an error; environment overrides and defaults still apply.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}
	cfg, err := config.LoadConfig(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Parse(nil)
	}
	return cfg, err
}
