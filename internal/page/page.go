// Package page lê e grava o snapshot da página renderizada pelo servidor:
// endereço da API, privilégio, token anti-falsificação e as linhas de resumo.
package page

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stockdesk/config"
	"stockdesk/internal/client/inventoryapi"
	"stockdesk/internal/domain"
)

// ErrProductNotFound indica que o id não está entre as linhas da página.
var ErrProductNotFound = errors.New("produto não encontrado na página")

// CSRF é o token anti-falsificação embutido na página.
type CSRF struct {
	Header string `yaml:"header"`
	Token  string `yaml:"token"`
}

// Page é o snapshot da página.
type Page struct {
	BaseURL   string           `yaml:"base_url"`
	Privilege config.Privilege `yaml:"privilege"`
	CSRF      CSRF             `yaml:"csrf"`
	Products  []domain.Product `yaml:"products"`
	Users     []domain.User    `yaml:"users,omitempty"`
}

// Load lê o snapshot YAML do caminho informado.
func Load(path string) (*Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler página %s: %w", path, err)
	}

	var p Page
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("falha ao interpretar página %s: %w", path, err)
	}
	if p.Privilege == "" {
		p.Privilege = config.PrivilegeUser
	}
	return &p, nil
}

// Save grava o snapshot no caminho informado.
func (p *Page) Save(path string) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("falha ao serializar página: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("falha ao gravar página %s: %w", path, err)
	}
	return nil
}

// Product devolve a linha de resumo do produto.
func (p *Page) Product(id int) (domain.Product, error) {
	i := p.indexOf(id)
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return p.Products[i], nil
}

// PatchStock sincroniza o estoque exibido na linha de resumo.
func (p *Page) PatchStock(id, stock int) error {
	i := p.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	p.Products[i].Stock = stock
	return nil
}

// MarkDeleted atualiza o indicador de exclusão lógica da linha.
func (p *Page) MarkDeleted(id int, deleted bool) error {
	i := p.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	p.Products[i].Deleted = deleted
	return nil
}

// User busca um usuário listado na página.
func (p *Page) User(id string) (domain.User, bool) {
	for _, u := range p.Users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// IsAdmin informa se a página foi renderizada no contexto administrativo.
func (p *Page) IsAdmin() bool {
	return p.Privilege == config.PrivilegeAdmin
}

// Endpoint devolve o caminho de update-stock do contexto de privilégio da página.
func (p *Page) Endpoint() string {
	if p.IsAdmin() {
		return inventoryapi.AdminUpdateStockPath
	}
	return inventoryapi.UserUpdateStockPath
}

// ClientOptions monta as opções do cliente, usando cfg quando a página não define o valor.
func (p *Page) ClientOptions(cfg *config.Config) inventoryapi.Options {
	opts := inventoryapi.Options{
		BaseURL:    p.BaseURL,
		Admin:      p.IsAdmin(),
		CSRFHeader: p.CSRF.Header,
		CSRFToken:  p.CSRF.Token,
		Timeout:    cfg.RequestTimeout(),
	}
	if opts.BaseURL == "" {
		opts.BaseURL = cfg.APIBaseURL
	}
	if opts.CSRFHeader == "" {
		opts.CSRFHeader = cfg.CSRFHeader
	}
	return opts
}

func (p *Page) indexOf(id int) int {
	for i := range p.Products {
		if p.Products[i].ID == id {
			return i
		}
	}
	return -1
}
