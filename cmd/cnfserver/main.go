/*
Cnfserver starts a grammar normalization server and begins listening for new
connections.

Usage:

	cnfserver [flags]
	cnfserver [flags] -l [[ADDRESS]:PORT]

Once started, the server will listen for HTTP requests and respond to them
using REST protocol. By default, it will listen on localhost:8080. This can be
changed with the --listen/-l flag (or config via file or environment var). The
flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the port preceeded by a colon, such as ":6001".

Settings are taken first from the config file given with --config, then
overridden by environment variables, then overridden by flags.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but must be given via
either CLI flags, config file, or environment variable if running in
production.

The flags are:

	-v, --version
		Give the current version of the server and then exit.

	-c, --config FILE
		Read settings from the given TOML file.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		CNFC_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable CNFC_TOKEN_SECRET.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable CNFC_DATABASE, and if that is not
		given, an in-memory database is selected.

	--verbose
		Log every stage of normalization of submitted grammars to stderr as
		JSON.

The admin user is created at startup with the password in environment variable
CNFC_ADMIN_PASSWORD if no user with its name exists yet.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/baditaflorin/l"
	"github.com/dekarrin/chomsky/internal/version"
	"github.com/dekarrin/chomsky/server"
	"github.com/spf13/pflag"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the server and then exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagVerbose = pflag.Bool("verbose", false, "Log every normalization stage to stderr.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (chomsky v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	var cfg server.Config
	var err error
	if *flagConfig != "" {
		cfg, err = server.LoadConfigFile(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
	}
	cfg, err = cfg.ApplyEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(1)
	}

	if pflag.Lookup("listen").Changed {
		if !strings.Contains(*flagListen, ":") {
			fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
			os.Exit(1)
		}
		cfg.ListenAddress = *flagListen
	}
	if pflag.Lookup("db").Changed {
		cfg.DB, err = server.ParseDBConnString(*flagDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
			os.Exit(1)
		}
	}
	if pflag.Lookup("secret").Changed {
		cfg.TokenSecret = []byte(*flagSecret)
	}

	// was the secret given?
	if len(cfg.TokenSecret) > 0 {
		for len(cfg.TokenSecret) < server.MinSecretSize {
			cfg.TokenSecret = append(cfg.TokenSecret, cfg.TokenSecret...)
		}
		if len(cfg.TokenSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(cfg.TokenSecret), server.MaxSecretSize)
			os.Exit(1)
		}
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}

		// yell at the user bc they should know their secret might be bad
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	var logger l.Logger
	if *flagVerbose {
		logger, err = l.NewStandardFactory().CreateLogger(l.Config{
			Output:     os.Stderr,
			JsonFormat: true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create logger: %s\n", err.Error())
			os.Exit(1)
		}
		defer logger.Close()
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		<-sigs

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("ERROR shutdown: %v", err)
		}
	}()

	log.Printf("INFO  Starting cnfserver %s...", version.ServerCurrent)
	if err := srv.ServeForever(); err != nil {
		log.Printf("FATAL %v", err)
	}
}
