package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"stockdesk/config"
	"stockdesk/internal/api/inventory"
	"stockdesk/internal/api/router"
	"stockdesk/internal/page"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/pkg/token"
	"stockdesk/internal/repository/inventoryrepo"
	"stockdesk/internal/service/inventoryservice"
)

func main() {
	var (
		envFile   string
		pageFile  string
		writePage bool
	)
	flag.StringVar(&envFile, "env", "", "arquivo .env opcional")
	flag.StringVar(&pageFile, "page", "", "snapshot da página usado como semente (padrão: PAGE_FILE)")
	flag.BoolVar(&writePage, "write-page", false, "grava o snapshot com token, endereço e cabeçalho preenchidos")
	flag.Parse()

	// 1. Configuração e Inicialização
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		log.Fatalf("⚠️ Falha ao carregar configuração: %v", err)
	}
	appLog := logger.NewLogger(cfg.LogLevel)
	defer logger.Sync(appLog)
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	if pageFile == "" {
		pageFile = cfg.PageFile
	}
	snapshot, err := page.Load(pageFile)
	if err != nil {
		appLog.Fatal("Falha ao carregar a página semente.", err)
	}

	// 2. Injeção de dependências: Repository -> Service -> Handler
	repo := inventoryrepo.NewInventoryRepository(logger.Named(appLog, "inventoryrepo"))
	repo.Seed(snapshot.Products, snapshot.Users)
	appLog.Debug("Repositório de Inventário inicializado.", map[string]interface{}{"products": len(snapshot.Products)})

	inventorySvc := inventoryservice.NewService(repo, logger.Named(appLog, "inventoryservice"))
	inventoryHandler := inventory.NewHandler(inventorySvc, logger.Named(appLog, "api"))

	tokenSvc := token.NewService(cfg.CSRFSecretKey, cfg.CSRFTokenExpiry())
	appLog.Debug("Serviço de Tokens inicializado.", nil)

	// 3. Token da sessão da página
	sessionToken, err := tokenSvc.GenerateToken(uuid.NewString(), string(snapshot.Privilege))
	if err != nil {
		appLog.Fatal("Falha ao emitir token da página.", err)
	}
	if writePage {
		if err := writeSnapshot(repo, snapshot, cfg, sessionToken, pageFile); err != nil {
			appLog.Fatal("Falha ao gravar a página.", err)
		}
		appLog.Info("Página gravada.", map[string]interface{}{"path": pageFile})
	}

	// 4. Roteador e servidor
	r := router.NewRouter(inventoryHandler, tokenSvc, cfg.CSRFHeader, logger.Named(appLog, "http"))

	server := &http.Server{
		Addr:         ":" + cfg.SandboxPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Sandbox ouvindo na porta", map[string]interface{}{"port": cfg.SandboxPort})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}

// writeSnapshot regrava a página com o estado atual do sandbox e a sessão emitida.
func writeSnapshot(repo *inventoryrepo.InventoryRepository, p *page.Page, cfg *config.Config, sessionToken, path string) error {
	ctx := context.Background()

	products, err := repo.ListProducts(ctx)
	if err != nil {
		return err
	}
	users, err := repo.ListUsers(ctx)
	if err != nil {
		return err
	}

	p.BaseURL = "http://localhost:" + cfg.SandboxPort
	p.CSRF = page.CSRF{Header: cfg.CSRFHeader, Token: sessionToken}
	p.Products = products
	p.Users = users
	return p.Save(path)
}
