package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ControladoriaGen/analitico-cdi/internal/config"
	"github.com/ControladoriaGen/analitico-cdi/internal/server"
	"github.com/ControladoriaGen/analitico-cdi/internal/util"
)

var (
	port    = flag.Int("port", 0, "porta do serviço (sobrepõe config.toml)")
	devMode = flag.Bool("dev", false, "modo de desenvolvimento")
	dataDir = flag.String("dataDir", "", "diretório de dados (sobrepõe config.toml)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  CDI – Análise Diária")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Falha ao carregar configuração, usando padrão: %v", err)
		cfg = config.DefaultConfig()
	}

	// parâmetros de linha de comando sobrepõem a configuração
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	dataPath, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("Falha ao criar diretório de dados: %v", err)
	} else {
		fmt.Printf("Diretório de dados: %s\n", dataPath)
	}

	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("Serviço subindo na porta %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("Falha ao iniciar o serviço: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("Abrindo o navegador: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Não foi possível abrir o navegador, acesse: %s\n", url)
		}
	} else {
		fmt.Printf("Modo de desenvolvimento: acesse %s\n", url)
	}

	fmt.Println("\nPressione Ctrl+C para encerrar...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nEncerrando o serviço...")
	if err := srv.Close(); err != nil {
		log.Printf("Falha ao liberar recursos: %v", err)
	}
}
