package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pola2025/leadform"
	"github.com/pola2025/leadform/engine/echosrv"
	"github.com/pola2025/leadform/leadclient"
)

func main() {
	var configFile, envFile string
	flag.StringVar(&configFile, "config", "", "properties 配置文件")
	flag.StringVar(&envFile, "env", ".env", "环境变量文件")
	flag.Parse()

	if err := run(configFile, envFile); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(configFile, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	defaults := map[string]string{}
	for _, key := range []string{
		"http.listen",
		"forms.store",
		"airtable.base",
		"airtable.table",
		"airtable.token",
		"leads.intake_url",
		"leads.intake_token",
		"auth.jwt.secret",
	} {
		if value := os.Getenv(envName(key)); value != "" {
			defaults[key] = value
		}
	}

	env, err := leadclient.NewEnvironmentWith("leadform", configFile, defaults)
	if err != nil {
		return err
	}

	srv, err := leadform.NewServer(env)
	if err != nil {
		return err
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return echosrv.Run(ctx, srv)
}

// envName airtable.token 对应的环境变量是 LEADFORM_AIRTABLE_TOKEN
func envName(key string) string {
	bs := []byte("LEADFORM_" + key)
	for idx, c := range bs {
		switch {
		case c == '.':
			bs[idx] = '_'
		case c >= 'a' && c <= 'z':
			bs[idx] = c - 'a' + 'A'
		}
	}
	return string(bs)
}
