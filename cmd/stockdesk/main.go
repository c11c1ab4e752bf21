package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockdesk/config"
	"stockdesk/internal/client/inventoryapi"
	"stockdesk/internal/dialog"
	"stockdesk/internal/domain"
	"stockdesk/internal/page"
	"stockdesk/internal/password"
	"stockdesk/internal/pkg/i18n"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/render/console"
	"stockdesk/internal/service/stockengine"
	"stockdesk/internal/service/stockservice"
)

const usage = `uso: stockdesk [-env arquivo] [-page arquivo] <comando> [opções]

comandos:
  preview      -id N -op in|out|set -qty N
  edit         -id N -op in|out|set -qty N [-remarks texto] [-save]
  history      -id N
  delete       -id N
  restore      -id N
  delete-user  -id ID
  password     -pw senha -confirm senha [-user ID -current senha]
`

// app concentra as dependências montadas a partir da configuração e da página.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	printer  *i18n.Printer
	page     *page.Page
	pagePath string
	renderer *console.Renderer
	client   *inventoryapi.Client
	registry *dialog.Registry
	stock    *dialog.StockDialog
}

func main() {
	os.Exit(run())
}

func run() int {
	var envFile, pageFile string
	flag.StringVar(&envFile, "env", "", "arquivo .env opcional")
	flag.StringVar(&pageFile, "page", "", "snapshot da página (padrão: PAGE_FILE)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		log.Fatalf("⚠️ Falha ao carregar configuração: %v", err)
	}
	appLog := logger.NewLogger(cfg.LogLevel)
	defer logger.Sync(appLog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		cfg:      cfg,
		log:      appLog,
		printer:  i18n.NewPrinter(cfg.Locale),
		renderer: console.NewRenderer(os.Stdout, os.Stdin),
	}

	if pageFile == "" {
		pageFile = cfg.PageFile
	}

	command, args := flag.Arg(0), flag.Args()[1:]
	if command == "password" {
		return a.runPassword(ctx, pageFile, args)
	}

	if err := a.loadPage(pageFile); err != nil {
		appLog.Error("Falha ao preparar a página.", err)
		return 1
	}

	switch command {
	case "preview":
		return a.runPreview(args)
	case "edit":
		return a.runEdit(ctx, args)
	case "history":
		return a.runProductAction(ctx, dialog.RoleViewHistory, args)
	case "delete":
		return a.runProductAction(ctx, dialog.RoleConfirmDelete, args)
	case "restore":
		return a.runProductAction(ctx, dialog.RoleRestore, args)
	case "delete-user":
		return a.runUserDelete(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "comando desconhecido: %s\n\n", command)
		flag.Usage()
		return 2
	}
}

// loadPage lê o snapshot e monta cliente, serviço, diálogos e registro de papéis.
func (a *app) loadPage(path string) error {
	p, err := page.Load(path)
	if err != nil {
		return err
	}
	a.page, a.pagePath = p, path

	client := inventoryapi.NewClient(p.ClientOptions(a.cfg))
	a.client = client
	a.log.Debug("Cliente de inventário inicializado.", map[string]interface{}{
		"base_url": p.BaseURL,
		"endpoint": p.Endpoint(),
	})

	stockSvc := stockservice.NewService(client, a.printer, logger.Named(a.log, "stockservice"))
	a.stock = dialog.NewStockDialog(stockSvc, a.renderer, a.printer, logger.Named(a.log, "dialog"))

	controllers := dialog.Controllers{
		Stock:    a.stock,
		History:  dialog.NewHistoryDialog(client, a.renderer, a.printer, logger.Named(a.log, "dialog")),
		OnAction: a.onAction,
	}
	if p.IsAdmin() {
		controllers.Delete = dialog.NewDeleteDialog(client, a.renderer, a.printer, logger.Named(a.log, "dialog"))
		controllers.Restore = dialog.NewRestoreDialog(client, a.renderer, a.printer, logger.Named(a.log, "dialog"))
		controllers.UserDelete = dialog.NewUserDeleteDialog(client, a.renderer, a.printer, logger.Named(a.log, "dialog"))
	}

	a.registry = dialog.NewRegistry()
	return dialog.RegisterDefaults(a.registry, controllers)
}

// onAction sincroniza a página após exclusão ou restauração confirmadas.
func (a *app) onAction(role dialog.Role, t dialog.Trigger, res dialog.ActionResult) {
	if !res.Success {
		return
	}
	switch role {
	case dialog.RoleConfirmDelete, dialog.RoleRestore:
		if err := a.page.MarkDeleted(t.ProductID, role == dialog.RoleConfirmDelete); err != nil {
			a.log.Warn("Linha do produto não encontrada na página.", map[string]interface{}{"product_id": t.ProductID})
			return
		}
		a.savePage()
	}
}

func (a *app) savePage() {
	if err := a.page.Save(a.pagePath); err != nil {
		a.log.Error("Falha ao gravar a página.", err)
	}
}

func (a *app) trigger(id int) (dialog.Trigger, error) {
	p, err := a.page.Product(id)
	if err != nil {
		return dialog.Trigger{}, err
	}
	return dialog.Trigger{ProductID: p.ID, ProductName: p.Name, CurrentStock: p.Stock}, nil
}

func (a *app) runPreview(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	id := fs.Int("id", 0, "id do produto")
	op := fs.String("op", "in", "operação (in, out, set)")
	qty := fs.String("qty", "", "quantidade")
	_ = fs.Parse(args)

	product, err := a.page.Product(*id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	operation, err := stockengine.ParseOperation(*op)
	if err != nil {
		fmt.Fprintln(os.Stderr, a.printer.ErrorMessage(err))
		return 1
	}
	a.renderer.RenderPreview(stockengine.Preview(product.Stock, operation, *qty))
	return 0
}

func (a *app) runEdit(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int("id", 0, "id do produto")
	op := fs.String("op", "in", "operação (in, out, set)")
	qty := fs.String("qty", "", "quantidade")
	remarks := fs.String("remarks", "", "observação (padrão conforme a operação)")
	save := fs.Bool("save", false, "grava o novo estoque na página")
	_ = fs.Parse(args)

	t, err := a.trigger(*id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	operation, err := stockengine.ParseOperation(*op)
	if err != nil {
		fmt.Fprintln(os.Stderr, a.printer.ErrorMessage(err))
		return 1
	}

	if err := a.registry.Dispatch(ctx, dialog.RoleEditStock, t); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer a.stock.Close()

	if _, err := a.stock.Change(operation, *qty); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *remarks != "" {
		if err := a.stock.SetRemarks(*remarks); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	outcome, err := a.stock.Submit(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !outcome.Success {
		return 1
	}

	if *save {
		if err := a.page.PatchStock(t.ProductID, outcome.ResultingStock); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		a.savePage()
	}
	return 0
}

func (a *app) runProductAction(ctx context.Context, role dialog.Role, args []string) int {
	fs := flag.NewFlagSet(string(role), flag.ExitOnError)
	id := fs.Int("id", 0, "id do produto")
	_ = fs.Parse(args)

	t, err := a.trigger(*id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := a.registry.Dispatch(ctx, role, t); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func (a *app) runUserDelete(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
	id := fs.String("id", "", "id do usuário")
	_ = fs.Parse(args)

	u, ok := a.page.User(*id)
	if !ok {
		fmt.Fprintf(os.Stderr, "usuário não encontrado na página: %s\n", *id)
		return 1
	}
	if err := a.registry.Dispatch(ctx, dialog.RoleConfirmUserDelete, dialog.Trigger{UserID: u.ID, Username: u.Username}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func (a *app) runPassword(ctx context.Context, pageFile string, args []string) int {
	fs := flag.NewFlagSet("password", flag.ExitOnError)
	pw := fs.String("pw", "", "nova senha")
	confirm := fs.String("confirm", "", "confirmação da senha")
	userID := fs.String("user", "", "envia a troca para o usuário informado")
	current := fs.String("current", "", "senha atual")
	_ = fs.Parse(args)

	_, band := password.Strength(*pw)
	switch band {
	case password.BandWeak:
		fmt.Println(a.printer.Sprintf(i18n.MsgStrengthWeak))
	case password.BandMedium:
		fmt.Println(a.printer.Sprintf(i18n.MsgStrengthMedium))
	case password.BandStrong:
		fmt.Println(a.printer.Sprintf(i18n.MsgStrengthStrong))
	}

	for _, st := range password.Requirements(*pw) {
		mark := "✗"
		if st.Met {
			mark = "✓"
		}
		fmt.Printf("  %s %s\n", mark, st.Requirement)
	}

	if err := password.CheckChange(*pw, *confirm); err != nil {
		fmt.Println(a.printer.ErrorMessage(err))
		return 1
	}
	if *userID == "" {
		return 0
	}

	// Formulário válido: envia ao servidor
	if err := a.loadPage(pageFile); err != nil {
		a.log.Error("Falha ao preparar a página.", err)
		return 1
	}
	resp, err := a.client.ChangePassword(ctx, *userID, domain.PasswordChangeRequest{
		CurrentPassword: *current,
		NewPassword:     *pw,
		ConfirmPassword: *confirm,
	})
	if err != nil {
		fmt.Println(a.printer.ErrorMessage(err))
		return 1
	}
	fmt.Println(resp.Message)
	if !resp.Success {
		return 1
	}
	return 0
}
